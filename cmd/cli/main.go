package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/windbreaker/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.StoreBackend{}).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
