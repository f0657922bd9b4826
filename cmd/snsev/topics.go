package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/snsevents/internal/scan"
	"github.com/groblegark/snsevents/internal/vars"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Print the topics the current config references",
	Long: `Lists every topic name referenced by snsTopic events or
` + "${snsTopic:name}" + ` variables, in declaration order, duplicates included.
No remote calls are made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadService()
		if err != nil {
			return err
		}

		// Names only; ARNs are not needed, so skip account resolution.
		resolver := vars.NewTopicResolver(func(topic string) string { return topic })
		if err := vars.NewChain(resolver).ExpandService(svc); err != nil {
			return err
		}
		names := scan.RewriteTopicEvents(svc, func(topic string) string { return topic })
		names = append(names, resolver.Topics()...)

		if jsonOutput {
			return printJSON(names)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}
