package main

import (
	"os"

	"github.com/wlkit/wlkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
