package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/spf13/cobra"

	"github.com/groblegark/snsevents/internal/stack"
	"github.com/groblegark/snsevents/internal/ui"
)

var orphansCheck bool

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List topics subscribed in the deployed stack",
	Long: `Lists the topic ARNs the currently deployed stack subscribes to:
the cleanup candidates of the next deploy. With --check, each topic's
live subscription counts are shown.`,
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

		snap, err := stack.Take(ctx, clients.CloudFormation, svc.StackName())
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(snap)
		}
		if len(snap.TopicARNs) == 0 {
			fmt.Println(ui.RenderMuted("no subscribed topics in stack " + snap.StackName))
			return nil
		}
		for _, arn := range snap.TopicARNs {
			if !orphansCheck {
				fmt.Println(arn)
				continue
			}
			out, err := clients.SNS.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{
				TopicArn: aws.String(arn),
			})
			if err != nil {
				fmt.Printf("%s  %s\n", arn, ui.RenderWarn("attributes unavailable"))
				continue
			}
			fmt.Printf("%s  pending=%s confirmed=%s\n", arn,
				out.Attributes["SubscriptionsPending"], out.Attributes["SubscriptionsConfirmed"])
		}
		return nil
	},
}

func init() {
	orphansCmd.Flags().BoolVar(&orphansCheck, "check", false, "fetch live subscription counts")
}
