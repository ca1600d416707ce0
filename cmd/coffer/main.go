package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coffer",
	Short: "Manage secrets in the platform keychain",
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.coffer/config.yaml)")
	rootCmd.PersistentFlags().StringP("namespace", "n", "", "namespace (keychain service) to operate in")
	rootCmd.PersistentFlags().StringP("group", "g", "", "sharing group for stored items")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
