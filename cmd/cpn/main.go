// Package main is the cpn command: the admissions web server plus offline calculator and
// suggestion commands.
//
// @title CPN Calculator API
// @version 1.0
// @description Computes the weighted admission aggregate (CPN) and ranks departments by admission likelihood.
// @BasePath /
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cpn",
		Short:         "CPN calculator and department advisor",
		Long:          "cpn computes the admission aggregate (60% entry test, 30% intermediate, 10% matric), ranks departments by admission likelihood and serves the admissions website.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newCalculateCmd(),
		newSuggestCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
