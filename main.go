package main

import (
	"os"

	"github.com/arup-group/batsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
