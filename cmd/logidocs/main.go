package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"logidocs/internal/backend"
	"logidocs/internal/config"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "logidocs",
		Short: "Logistics document review toolkit",
		Long: `logidocs drives the human review loop for the logistics document
extraction backend: upload a PDF, review and correct the extracted
fields, save the result, and inspect the documents and model quality
tables.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newHealthCmd(),
		newReviewCmd(),
		newDocumentsCmd(),
		newModelLogsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("logidocs version %s\n", version)
			}
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the backend API and its database connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client := backend.New(cfg.APIBaseURL, cfg.HTTPTimeout, cfg.NewLogger())

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			status, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("API disconnected: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(status)
			}
			fmt.Printf("API: connected (%s)\n", status.Status)
			fmt.Printf("Database: %s\n", status.Database)
			return nil
		},
	}
}
