package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/tillworks/tillpoint/database/migrations"
)

var rootCmd = &cobra.Command{
	Use:   "tillpoint",
	Short: "Tillpoint point-of-sale backend",
	Long:  "Tillpoint is a point-of-sale backend: product catalogue, customers, and the order lifecycle over a JSON API.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
