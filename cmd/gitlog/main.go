package main

import (
	"os"

	"github.com/dshills/gitlog/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
