package main

import (
	"fmt"
	"os"

	"github.com/substrail/dstore/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dstore: %v\n", err)
		os.Exit(1)
	}
}
