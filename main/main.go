package main

import (
	"fmt"
	"os"
	"path"

	"github.com/c4lang/c4go/c4"
)

//****************************  Main  ********************************//
func main() {

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "USAGE: ./c4 <input-file>")
		os.Exit(1)
	}
	if path.Ext(os.Args[1]) != ".c4" {
		fmt.Fprintln(os.Stderr, "Input file extension must be .c4")
		os.Exit(1)
	}
	//Read
	infile := os.Args[1]
	code, err := os.ReadFile(infile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Cannot open input C4 file.")
		os.Exit(1)
	}

	program, err := c4.Parse(string(code))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	interp := c4.NewInterp()
	result, err := interp.Run(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch result.Kind {
	case c4.VoidValue:
		fmt.Println("Program finished.")
	case c4.StrValue:
		fmt.Printf("Program finished. Final result = %q\n", result.Str)
	default:
		fmt.Printf("Program finished. Final result = %s\n", result)
	}
}
