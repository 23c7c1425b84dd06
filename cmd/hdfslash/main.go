package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/DrSkyle/hdfslash/cmd/hdfslash/commands"
)

func main() {
	// Block native Windows. Hadoop tooling assumes a POSIX shell and the
	// generated scripts are bash.
	if runtime.GOOS == "windows" {
		fmt.Println("Error: HDFSlash does not support native Windows.")
		fmt.Println("Run it inside WSL2 (Windows Subsystem for Linux).")
		os.Exit(1)
	}

	commands.Execute()
}
