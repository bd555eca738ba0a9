package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var clearData bool

var rootCmd = &cobra.Command{
	Use:   "user-management",
	Short: "User management API",
	Long:  `CRUD API for users, roles and permissions backing the user management frontend.`,
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
