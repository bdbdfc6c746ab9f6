package main

import (
	"os"

	"energyd/internal/cli"
)

func main() { os.Exit(cli.Main()) }
