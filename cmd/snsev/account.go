package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/snsevents/internal/awsx"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the resolved account id",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, err := loadService()
		if err != nil {
			return err
		}
		clients, err := newClients(ctx, svc)
		if err != nil {
			return err
		}

		account, err := awsx.NewAccountResolver(clients.STS).Resolve(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]string{"account": account})
		}
		fmt.Println(account)
		return nil
	},
}
