package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/benaskins/coffer"
)

var setCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Store a secret in the keychain",
	Long:  "Store a secret. If value is omitted, reads from stdin (useful for piping).",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := newCoffer(cmd)
		if err != nil {
			return err
		}
		defer done()
		key := args[0]

		var value string
		if len(args) == 2 {
			value = args[1]
		} else {
			// Read from stdin
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Print("Enter secret value: ")
				b, err := term.ReadPassword(int(os.Stdin.Fd()))
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				fmt.Println()
				value = string(b)
			} else {
				b, err := os.ReadFile("/dev/stdin")
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				value = strings.TrimRight(string(b), "\n")
			}
		}

		if err := store.SetString(key, value); err != nil {
			return err
		}
		fmt.Printf("Secret %q stored\n", key)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Retrieve a secret from the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := newCoffer(cmd)
		if err != nil {
			return err
		}
		defer done()
		val, err := store.GetString(args[0])
		if err != nil {
			return err
		}
		fmt.Println(val)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all secret keys in the namespace",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := newCoffer(cmd)
		if err != nil {
			return err
		}
		defer done()
		keys, err := store.Keys()
		if err != nil {
			return err
		}

		if len(keys) == 0 {
			fmt.Println("No secrets stored")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY")
		for _, k := range keys {
			fmt.Fprintln(w, k)
		}
		w.Flush()
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Short:   "Remove a secret from the keychain",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := newCoffer(cmd)
		if err != nil {
			return err
		}
		defer done()
		if err := store.Delete(args[0]); err != nil {
			if errors.Is(err, coffer.ErrNotFound) {
				return fmt.Errorf("no secret stored under %q", args[0])
			}
			return err
		}
		fmt.Printf("Secret %q deleted\n", args[0])
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every secret in the namespace",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := newCoffer(cmd)
		if err != nil {
			return err
		}
		defer done()
		if err := store.DeleteAll(); err != nil {
			return err
		}
		fmt.Println("Namespace cleared")
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count secrets in the namespace",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := newCoffer(cmd)
		if err != nil {
			return err
		}
		defer done()
		n, err := store.Count()
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <key>",
	Short: "Show non-secret attributes of a stored secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := newCoffer(cmd)
		if err != nil {
			return err
		}
		defer done()
		info, err := store.Describe(args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Key:\t%s\n", info.Key)
		if info.Namespace != "" {
			fmt.Fprintf(w, "Namespace:\t%s\n", info.Namespace)
		}
		if info.Group != "" {
			fmt.Fprintf(w, "Group:\t%s\n", info.Group)
		}
		if !info.Created.IsZero() {
			fmt.Fprintf(w, "Created:\t%s\n", info.Created)
		}
		if !info.Modified.IsZero() {
			fmt.Fprintf(w, "Modified:\t%s\n", info.Modified)
		}
		w.Flush()
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate <from> <to>",
	Short: "Move every secret from one namespace to another",
	Long: "Move every secret from one namespace to another. Each secret is " +
		"copied before its original is deleted, so an interrupted run never " +
		"loses data; re-run to finish a partial migration.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := newCoffer(cmd)
		if err != nil {
			return err
		}
		defer done()
		if err := store.Migrate(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Migrated secrets from %q to %q\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(migrateCmd)
}
