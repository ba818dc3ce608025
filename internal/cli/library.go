package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelpress/labelpress/pkg/library"
)

// libraryCommand creates the library management command. The library is
// the persistent set of symbols offered by the sheet picker; the backend
// is chosen by LABELPRESS_LIBRARY_STORE (file, memory, redis, mongo).
func (c *CLI) libraryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the symbol library",
	}

	cmd.AddCommand(c.libraryListCommand())
	cmd.AddCommand(c.libraryAddCommand())
	cmd.AddCommand(c.libraryRemoveCommand())
	cmd.AddCommand(c.libraryExportCommand())

	return cmd
}

// openLibrary opens the configured library backend.
func openLibrary(cmd *cobra.Command) (library.Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("get data dir: %w", err)
	}
	return library.Open(cmd.Context(), dir)
}

// libraryListCommand creates the "library list" subcommand.
func (c *CLI) libraryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List library symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			items, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				printInfo("Library is empty")
				printNextStep("Add symbols", "labelpress library add <symbol>...")
				return nil
			}

			for i, item := range items {
				printKeyValue(fmt.Sprintf("%d", i+1), item)
			}
			printDetail("%d symbols", len(items))
			return nil
		},
	}
}

// libraryAddCommand creates the "library add" subcommand.
func (c *CLI) libraryAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <symbol>...",
		Short: "Add symbols to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			if err := store.Add(cmd.Context(), args...); err != nil {
				return err
			}
			printSuccess("Added %d symbols", len(args))
			return nil
		},
	}
}

// libraryRemoveCommand creates the "library remove" subcommand.
func (c *CLI) libraryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <symbol>",
		Short: "Remove a symbol from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			if err := store.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed %q", args[0])
			return nil
		},
	}
}

// libraryExportCommand creates the "library export" subcommand.
// The export is a JSON array, the same shape the file backend stores.
func (c *CLI) libraryExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the library as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			items, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if items == nil {
				items = []string{}
			}

			data, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Exported %d symbols", len(items))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
