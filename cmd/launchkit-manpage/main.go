package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/pavez/launchkit/cmd/launchkit"
	"github.com/pavez/launchkit/internal/version"
)

func main() {
	rootCmd := launchkit.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "LAUNCHKIT",
		Section: "1",
		Source:  "launchkit " + version.Version,
		Manual:  "launchkit manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
