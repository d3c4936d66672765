package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"logidocs/internal/backend"
	"logidocs/internal/config"
	"logidocs/internal/entity"
	"logidocs/internal/repository"
	"logidocs/internal/spool"
)

func newModelLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model-logs",
		Short: "Show extraction quality logs (reads the database directly)",
		RunE:  runModelLogsList,
	}
	cmd.Flags().Int("limit", 100, "Maximum number of rows")
	cmd.AddCommand(newModelLogsFlushCmd())
	return cmd
}

func runModelLogsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DBURL == "" {
		return fmt.Errorf("LOGIDOCS_DB_URL (or DB_URL) is required to read model logs")
	}
	logger := cfg.NewLogger()

	pool, err := repository.Open(cmd.Context(), repository.Config{
		DSN:             cfg.DBURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
		MaxConnIdleTime: cfg.DBMaxConnIdle,
		DialTimeout:     cfg.DBDialTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(cmd.Context(), pool, cfg.DBDialTimeout, logger); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	repo, err := repository.NewModelLogRepository(pool, cfg.ModelLogTable, logger)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	stats, err := repo.Stats(cmd.Context())
	if err != nil {
		return err
	}
	logs, err := repo.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(struct {
			Stats *entity.ModelLogStats `json:"stats"`
			Logs  []*entity.ModelLog    `json:"logs"`
		}{stats, logs})
	}

	pct := func(n int64) float64 {
		if stats.Total == 0 {
			return 0
		}
		return float64(n) / float64(stats.Total) * 100
	}
	fmt.Printf("Total logs: %d  successful: %d (%.1f%%)  with corrections: %d (%.1f%%)\n",
		stats.Total, stats.Succeeded, pct(stats.Succeeded), stats.Corrected, pct(stats.Corrected))

	for _, m := range logs {
		verdict := "ok"
		if !m.Success {
			verdict = "corrected"
		}
		fmt.Printf("[%d] %s  %s  %s\n",
			m.ID, m.CreatedAt.Format("2006-01-02 15:04"), verdict, m.DocumentHash)
		if m.FailureReason != nil {
			fmt.Printf("    %s\n", *m.FailureReason)
		}
	}
	return nil
}

func newModelLogsFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Deliver locally spooled quality logs to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger()

			if _, err := os.Stat(cfg.SpoolPath); os.IsNotExist(err) {
				fmt.Println("Nothing spooled.")
				return nil
			}

			sp, err := spool.Open(cfg.SpoolPath, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := sp.Close(); err != nil {
					logger.Warn("closing spool failed", "error", err)
				}
			}()

			client := backend.New(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
			sent, kept, err := sp.Flush(cmd.Context(), func(ctx context.Context, entry entity.ModelLogEntry) error {
				ctx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
				defer cancel()
				return client.LogModelQuality(ctx, entry)
			})
			if err != nil {
				return err
			}
			fmt.Printf("Delivered %d quality log(s), %d still pending.\n", sent, kept)
			return nil
		},
	}
}
