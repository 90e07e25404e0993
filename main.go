package main

import (
	"os"

	"github.com/chargefront/chargefront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
