package main

import (
	"os"

	"github.com/svanteberg/plugga/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
