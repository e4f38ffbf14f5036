package main

import (
	"os"

	"github.com/wesm/notequery/cmd/notequery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
