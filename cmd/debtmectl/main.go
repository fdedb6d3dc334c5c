// Command debtmectl is the operator tool: schema migrations, admin bootstrap
// and one-time code helpers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "debtmectl",
		Short:         "DebtMe operator commands",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd())
	root.AddCommand(createAdminCmd())
	root.AddCommand(newSecretCmd())
	root.AddCommand(codeCmd())
	return root
}
