package main

import (
	"os"

	"github.com/wonny/trendscan/cmd/trendscan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
