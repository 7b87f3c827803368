package cmd

import (
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered type descriptors",
	Long: `List the producer's registered types: name, numeric identity, size
in bytes and field count. The type_id is producer-assigned and need not be
stable across producer restarts.`,
	RunE: runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	snap, err := newClient().Fetch(ctx)
	if err != nil {
		return err
	}

	newRenderer().Types(snap)
	return nil
}
