package main

import (
	"fmt"
	"os"

	"exposure-debugpanel/internal/adapter/primary/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
