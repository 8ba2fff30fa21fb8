package main

import (
	"os"

	"github.com/gzhole/termshield/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
