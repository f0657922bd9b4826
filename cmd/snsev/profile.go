package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groblegark/snsevents/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage named deploy profiles",
	// Skip service config loading — all profile subcommands are local file operations.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a named profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		region, _ := cmd.Flags().GetString("region")
		stage, _ := cmd.Flags().GetString("stage")
		endpoint, _ := cmd.Flags().GetString("endpoint")
		natsURL, _ := cmd.Flags().GetString("nats")

		cfg, err := config.LoadProfiles()
		if err != nil {
			return err
		}
		cfg.Profiles[name] = config.Profile{
			Region:   region,
			Stage:    stage,
			Endpoint: endpoint,
			NATSURL:  natsURL,
		}
		if err := config.SaveProfiles(cfg); err != nil {
			return err
		}
		fmt.Printf("profile %q added\n", name)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := config.LoadProfiles()
		if err != nil {
			return err
		}
		if _, ok := cfg.Profiles[name]; !ok {
			return fmt.Errorf("profile %q not found", name)
		}
		delete(cfg.Profiles, name)
		if cfg.Active == name {
			cfg.Active = ""
		}
		if err := config.SaveProfiles(cfg); err != nil {
			return err
		}
		fmt.Printf("profile %q removed\n", name)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadProfiles()
		if err != nil {
			return err
		}
		if len(cfg.Profiles) == 0 {
			fmt.Println("no profiles configured")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tREGION\tSTAGE\tENDPOINT")
		for name, p := range cfg.Profiles {
			marker := "  "
			if name == cfg.Active {
				marker = "* "
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", marker, name, p.Region, p.Stage, p.Endpoint)
		}
		return w.Flush()
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := config.LoadProfiles()
		if err != nil {
			return err
		}
		if _, ok := cfg.Profiles[name]; !ok {
			return fmt.Errorf("profile %q not found", name)
		}
		cfg.Active = name
		if err := config.SaveProfiles(cfg); err != nil {
			return err
		}
		fmt.Printf("active profile set to %q\n", name)
		return nil
	},
}

func init() {
	profileAddCmd.Flags().String("region", "", "deploy region")
	profileAddCmd.Flags().String("stage", "", "deploy stage")
	profileAddCmd.Flags().String("endpoint", "", "custom AWS endpoint")
	profileAddCmd.Flags().String("nats", "", "NATS URL for deploy events")

	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileUseCmd)
}
