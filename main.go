package main

import (
	"os"

	"github.com/karimnasser/schedbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
