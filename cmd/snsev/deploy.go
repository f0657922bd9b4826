package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/snsevents/internal/hooks"
	"github.com/groblegark/snsevents/internal/lifecycle"
	"github.com/groblegark/snsevents/internal/ui"
)

var deployCmd = &cobra.Command{
	Use:   "deploy -- <deploy command>",
	Short: "Run the full lifecycle around the host framework's deploy command",
	Long: `Runs before-package (rewrite custom events), writes the resolved
configuration next to the original, runs before-deploy (stack snapshot),
executes the given deploy command, then runs after-deploy (create topics,
clean up orphans).`,
	Args: cobra.MinimumNArgs(1),
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

		// The host deploy command packages from the resolved config.
		resolved, err := svc.Encode()
		if err != nil {
			return err
		}
		resolvedPath := cfg.ServiceFile + ".resolved"
		if err := os.WriteFile(resolvedPath, resolved, 0o644); err != nil {
			return fmt.Errorf("write resolved config: %w", err)
		}

		if err := session.BeforeDeploy(ctx); err != nil {
			return err
		}

		command := strings.Join(args, " ")
		fmt.Println(ui.RenderMuted("running: " + command))
		if err := hooks.Execute(ctx, command, map[string]string{
			"SNSEV_DEPLOY_ID":       session.DeployID(),
			"SNSEV_RESOLVED_CONFIG": resolvedPath,
			"SNSEV_STACK":           svc.StackName(),
		}); err != nil {
			return fmt.Errorf("deploy command: %w", err)
		}

		if err := session.AfterDeploy(ctx); err != nil {
			return err
		}

		fmt.Println(ui.RenderOK(fmt.Sprintf("deploy %s complete: %d topics referenced, %d orphan candidates checked",
			session.DeployID(), len(session.Topics()), len(session.Snapshot().TopicARNs))))
		return nil
	},
}
