package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/snsevents/internal/lifecycle"
)

var resolveOut string

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Rewrite custom events and variables, print the resolved config",
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
		pub, err := newPublisher()
		if err != nil {
			return err
		}
		defer pub.Close()

		session, err := lifecycle.NewSession(svc, clients, pub, logger)
		if err != nil {
			return err
		}
		if err := session.BeforePackage(ctx); err != nil {
			return err
		}

		data, err := svc.Encode()
		if err != nil {
			return err
		}
		if resolveOut != "" {
			if err := os.WriteFile(resolveOut, data, 0o644); err != nil {
				return fmt.Errorf("write resolved config: %w", err)
			}
			return nil
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveOut, "out", "o", "", "write resolved config to file instead of stdout")
}
