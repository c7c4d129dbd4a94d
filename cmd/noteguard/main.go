package main

import (
	"fmt"
	"io"
	"os"
)

// Process handles, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

func main() {
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(stderr, "%s: %v\n", msg, err)
	exit(1)
}
