package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <label> [field]",
	Short: "Show one object, or one of its fields",
	Long: `Fetch a fresh snapshot and print the named object. With a field
argument, print just that field's value. Field names are matched exactly
against top-level field names; there is no nested-path syntax.

Examples:
  memglass get main_counter
  memglass get main_counter value`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	label := args[0]

	obj, ok, err := newClient().GetObject(ctx, label)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("object %q not found in snapshot", label)
	}

	if len(args) == 2 {
		value, err := obj.Get(args[1])
		if err != nil {
			return err
		}
		fmt.Println(value.String())
		return nil
	}

	newRenderer().Object(obj)
	return nil
}
