package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tillworks/tillpoint/config"
	"github.com/tillworks/tillpoint/internal/server"
	"github.com/tillworks/tillpoint/pkg/database"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run()
	},
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "Print every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if err := database.Connect(); err != nil {
			return err
		}

		r := server.NewRouter()
		fmt.Printf("%-8s %-45s %s\n", "Method", "Path", "Name")
		for _, info := range r.Routes() {
			fmt.Printf("%-8s %-45s %s\n", info.Method, info.Path, info.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, routeListCmd)
}
