package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/packmerge/cmd/packmerge"
	"github.com/arthur-debert/packmerge/internal/version"
)

func main() {
	rootCmd := packmerge.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "PACKMERGE",
		Section: "1",
		Source:  "packmerge " + version.Version,
		Manual:  "packmerge manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
