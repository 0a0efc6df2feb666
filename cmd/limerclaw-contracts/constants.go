package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/limerclaw/shared-types/contracts"
)

func newConstantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "constants",
		Short: "Print protocol limits, enum value sets and lookup tables as JSON",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.printJSON(struct {
				Constants contracts.Catalog   `json:"constants"`
				Enums     map[string][]string `json:"enums"`
			}{contracts.NewCatalog(), contracts.EnumSets()})
		},
	}
}

func newVersionCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and protocol version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "limerclaw-contracts %s (protocol v%d)\n", version, contracts.ProtocolVersion)
		},
	}
}
