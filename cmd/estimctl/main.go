// cmd/estimctl/main.go
package main

import (
	"os"

	"github.com/estim-games/estim-api/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
