// Command snekpath runs the navigation engine: batch simulation, the
// decision server and a few debugging aids.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/brensch/snekpath/cli"
)

func main() {
	if err := cli.New().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
