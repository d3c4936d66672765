package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"logidocs/constants"
	"logidocs/internal/backend"
	"logidocs/internal/config"
	"logidocs/internal/entity"
	"logidocs/internal/review"
	"logidocs/internal/spool"
	"logidocs/internal/ui"
)

func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <file.pdf>",
		Short: "Extract a PDF, review the fields, and save corrections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger()
			client := backend.New(cfg.APIBaseURL, cfg.HTTPTimeout, logger)

			path := args[0]
			ext := constants.NormalizeExt(filepath.Ext(path))
			if _, ok := constants.AllowedExtensions[ext]; !ok {
				return fmt.Errorf("unsupported file type %q: only PDF uploads are accepted", ext)
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			extractCtx, cancel := context.WithTimeout(cmd.Context(), cfg.ExtractTimeout)
			defer cancel()

			fmt.Println("Processing...")
			result, err := client.Extract(extractCtx, filepath.Base(path), f)
			if err != nil {
				return fmt.Errorf("extract failed: %w", err)
			}
			if !result.IsValid {
				msg := result.ValidationMessage
				if msg == "" {
					msg = "not a valid logistics document"
				}
				return fmt.Errorf("document rejected: %s", msg)
			}

			sess := review.NewSession(logger)
			if err := sess.Begin(result, filepath.Base(path)); err != nil {
				return err
			}

			reviewer := ui.NewReviewer(os.Stdin, os.Stdout, logger)
			save, err := reviewer.Run(sess)
			if err != nil {
				return err
			}
			if !save {
				fmt.Println("Cancelled, nothing saved.")
				return nil
			}

			ctx, cancelSave := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancelSave()

			resp, entry, err := sess.Save(ctx, client)
			if err != nil {
				if backend.IsConflict(err) {
					return fmt.Errorf("document already in db: %w", err)
				}
				return fmt.Errorf("save failed: %w", err)
			}
			fmt.Printf("Document saved (id %d).\n", resp.DocumentID)

			if err := client.LogModelQuality(ctx, *entry); err != nil {
				logger.Warn("model quality log failed", "error", err)
				if backend.IsTransient(err) {
					if spErr := spoolEntry(cmd.Context(), cfg, logger, entry); spErr != nil {
						logger.Warn("spooling model quality log failed", "error", spErr)
						fmt.Println("Warning: model quality log was not recorded.")
					} else {
						fmt.Println("Model quality log spooled; run 'logidocs model-logs flush' to deliver it.")
					}
				} else {
					fmt.Println("Warning: model quality log was rejected by the backend.")
				}
			}
			return nil
		},
	}
}

// spoolEntry keeps an undeliverable quality log locally so a later
// flush can post it.
func spoolEntry(ctx context.Context, cfg *config.Config, logger *slog.Logger, entry *entity.ModelLogEntry) error {
	if err := os.MkdirAll(filepath.Dir(cfg.SpoolPath), 0o750); err != nil {
		return err
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
	return sp.Enqueue(ctx, *entry)
}
