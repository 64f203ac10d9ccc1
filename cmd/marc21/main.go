// Command marc21 streams, filters, and inspects MARC 21 (ISO 2709)
// bibliographic records.
package main

import (
	"os"

	"github.com/go-marc21/marc21toolkit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
