package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/procdeck/pkg/diagram"
)

// policiesCommand creates the command listing the built-in policies.
func (c *CLI) policiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "Print the column roles of every policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(policyTable(diagram.Policies()))
			printDetail("primary: green oval · secondary: red oval · label: white box with red oval")
			printDetail("* column text is not searched for verbs")
			return nil
		},
	}
}
