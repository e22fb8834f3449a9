// Command boardctl inspects and maintains the stored task board state
// without going through the HTTP server.
package main

import (
	"os"

	"taskboard/internal/repository"
)

func main() {
	if err := newRootCmd(repository.Open).Execute(); err != nil {
		os.Exit(1)
	}
}
