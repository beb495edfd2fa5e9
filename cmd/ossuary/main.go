// Command ossuary manages a relational object store from the command line.
package main

import (
	"os"

	"github.com/mesh-intelligence/ossuary/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
