// projgrid browses and filters a directory of DeFi and crypto projects.
package main

import (
	"os"

	"github.com/hupe1980/projgrid/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
