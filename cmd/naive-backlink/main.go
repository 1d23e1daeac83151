// Command naive-backlink is the CLI entry point for the verify, crawl,
// and cache subcommands documented in internal/cli.
package main

import "github.com/rohmanhakim/naive-backlink/internal/cli"

func main() {
	cli.Execute()
}
