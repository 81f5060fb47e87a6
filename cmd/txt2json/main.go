package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ivlev/lyricanim/internal/lyrics"
)

const usageMessage = "[ERR] Please put the path to the txt file as a first argument"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run converts the text file named by args[0] and prints the JSON to stdout.
// Nothing reaches stdout unless the whole file converts.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, usageMessage)
		return 1
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "[-] Failed to open %s: %v\n", args[0], err)
		return 1
	}
	defer f.Close()

	converted, err := lyrics.Convert(f)
	if err != nil {
		fmt.Fprintf(stderr, "[-] Failed to convert %s: %v\n", args[0], err)
		return 1
	}

	w := bufio.NewWriter(stdout)
	if err := converted.Encode(w); err != nil {
		fmt.Fprintf(stderr, "[-] Failed to encode: %v\n", err)
		return 1
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(stderr, "[-] Failed to write output: %v\n", err)
		return 1
	}
	return 0
}
