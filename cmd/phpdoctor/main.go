// Package main provides the entry point for the phpdoctor CLI.
package main

import (
	"os"

	"github.com/phpdoctor/phpdoctor/cmd/phpdoctor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
