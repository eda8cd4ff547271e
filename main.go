package main

import (
	"os"

	"github.com/mkoukoua/momochat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
