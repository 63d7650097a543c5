package main

import (
	"fmt"
	"os"

	"minicc/pkg/compiler"
)

const testSource = `int main() {
	int x;
	x = 5 + 3;
	if (x == 8) {
		x = x - 1;
	} else {
		x = x + 1;
	}
	return x;
}
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	res, err := compiler.Compile(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "compile error:", err)
		os.Exit(1)
	}

	fmt.Printf("Tokens (%d)\n", len(res.Tokens))
	fmt.Print(res.FormatTokens())
	fmt.Println()

	fmt.Println("AST")
	fmt.Print(res.FormatAST())
	fmt.Println()

	fmt.Printf("TAC (%d instructions)\n", len(res.Instructions))
	fmt.Print(res.FormatTAC())
	fmt.Println()

	fmt.Print(res.Symbols)
}
