// Reviewlensctl is the operator CLI for the reviewlens review cache.
//
// Usage:
//
//	reviewlensctl stats                         # entry counts and age range
//	reviewlensctl clear [--key reviews_24h]     # drop one entry or all of them
//	reviewlensctl cleanup                       # remove expired entries now
//	reviewlensctl fetch --hours 48 --source apple --force
package main

import (
	"os"

	"github.com/reviewlens/reviewlens/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
