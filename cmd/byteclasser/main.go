/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for byteclasser. Scores every row of a delimited
table against a vocabulary of weighted byte patterns and writes one score column per label.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/byteclasser/cmd/byteclasser/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
