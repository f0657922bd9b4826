package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/snsevents/internal/awsx"
	"github.com/groblegark/snsevents/internal/config"
	"github.com/groblegark/snsevents/internal/events"
	"github.com/groblegark/snsevents/internal/model"
	"github.com/groblegark/snsevents/internal/ui"
)

var (
	serviceFile string
	stage       string
	region      string
	endpoint    string
	profileName string
	jsonOutput  bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "snsev <command>",
	Short: "SNS topic events for declarative function deploys",
	Long: `snsev rewrites custom snsTopic events and ${snsTopic:name} variables
into native SNS subscriptions, creates the referenced topics after a
deploy, and cleans up topics the previous deploy left behind.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		cfg = config.Load()
		if serviceFile != "" {
			cfg.ServiceFile = serviceFile
		}
		if stage != "" {
			cfg.Stage = stage
		}
		if region != "" {
			cfg.Region = region
		}
		if endpoint != "" {
			cfg.Endpoint = endpoint
		}
		if err := cfg.ApplyNamed(profileName); err != nil {
			return err
		}

		level := slog.LevelInfo
		if os.Getenv("SNSEV_DEBUG") != "" {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// loadService parses the service file and overlays stage/region from config.
func loadService() (*model.Service, error) {
	data, err := os.ReadFile(cfg.ServiceFile)
	if err != nil {
		return nil, fmt.Errorf("read service config: %w", err)
	}
	svc, err := model.Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.Stage != "" {
		svc.Provider.Stage = cfg.Stage
	}
	if cfg.Region != "" {
		svc.Provider.Region = cfg.Region
	}
	return svc, nil
}

// newClients builds AWS clients for the service's region.
func newClients(ctx context.Context, svc *model.Service) (*awsx.Clients, error) {
	return awsx.NewClients(ctx, svc.Provider.Region, cfg.Endpoint)
}

// newPublisher connects to NATS when configured, otherwise returns a noop.
func newPublisher() (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}, nil
	}
	return events.NewNATSPublisher(cfg.NATSURL)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serviceFile, "config", "c", "", "service configuration file (default serverless.yml)")
	rootCmd.PersistentFlags().StringVar(&stage, "stage", "", "deploy stage override")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "region override")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "custom AWS endpoint (localstack)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "named deploy profile")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(orphansCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
