package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"logidocs/internal/backend"
	"logidocs/internal/config"
	"logidocs/internal/export"
)

func newDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Inspect the saved documents table",
	}
	cmd.AddCommand(
		newDocumentsListCmd(),
		newDocumentsGetCmd(),
		newDocumentsDeleteCmd(),
		newDocumentsExportCmd(),
	)
	return cmd
}

func apiClient(cmd *cobra.Command) (*config.Config, *backend.Client, context.Context, context.CancelFunc, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	client := backend.New(cfg.APIBaseURL, cfg.HTTPTimeout, cfg.NewLogger())
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
	return cfg, client, ctx, cancel, nil
}

func newDocumentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, ctx, cancel, err := apiClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			list, err := client.ListDocuments(ctx)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(list)
			}

			fmt.Printf("Total documents: %d\n", list.Total)
			str := func(p *string) string {
				if p == nil {
					return "N/A"
				}
				return *p
			}
			for _, d := range list.Documents {
				fmt.Printf("[%d] %s\n", d.ID, d.Filename)
				fmt.Printf("    tracking: %s  carrier: %s  status: %s\n",
					str(d.TrackingNumber), str(d.Carrier), str(d.Status))
				fmt.Printf("    shipper: %s  receiver: %s\n",
					str(d.ShipperName), str(d.ReceiverName))
				fmt.Printf("    shipment date: %s  created: %s\n",
					str(d.ShipmentDate), d.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newDocumentsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one document with all fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid document id %q", args[0])
			}
			_, client, ctx, cancel, err := apiClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			doc, err := client.GetDocument(ctx, id)
			if err != nil {
				if backend.IsNotFound(err) {
					return fmt.Errorf("document %d not found", id)
				}
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
}

func newDocumentsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid document id %q", args[0])
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				fmt.Printf("Delete document %d? [y/N]: ", id)
				var answer string
				_, _ = fmt.Fscanln(os.Stdin, &answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Println("Aborted.")
					return nil
				}
			}

			_, client, ctx, cancel, err := apiClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if err := client.DeleteDocument(ctx, id); err != nil {
				if backend.IsNotFound(err) {
					return fmt.Errorf("document %d not found", id)
				}
				return err
			}
			fmt.Printf("Document %d deleted.\n", id)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	return cmd
}

func newDocumentsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the documents table to an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			cfg, client, ctx, cancel, err := apiClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			list, err := client.ListDocuments(ctx)
			if err != nil {
				return err
			}

			svc := export.NewService(cfg.NewLogger())
			data, err := svc.DocumentsXLSX(list.Documents)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %d document(s) to %s\n", len(list.Documents), out)
			return nil
		},
	}
	cmd.Flags().String("out", "documents.xlsx", "Output file path")
	return cmd
}
