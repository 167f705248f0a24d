package main

import (
	"os"

	"github.com/Fepozopo/artwall/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
