package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendabot/vendabot/internal/config"
	"github.com/vendabot/vendabot/internal/dependency"
	"github.com/vendabot/vendabot/internal/schema"
)

var (
	ingestCategory string
	ingestTitle    string
	ingestContent  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [url]",
	Short: "Add sales knowledge from a URL or directly from flags",
	Long: `Ingest a web page (pricing page, product sheet, FAQ) into the workspace
knowledge base, or add a single item with --title and --content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCategory, "category", "c", "product", "Knowledge category (product, objection, script)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "Title for a directly added item")
	ingestCmd.Flags().StringVar(&ingestContent, "content", "", "Content for a directly added item")
}

func runIngest(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if len(args) == 1 {
		n, err := container.Ingester().IngestURL(ctx, cfg.Workspace, args[0], ingestCategory)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Ingested %d item(s) from %s\n", n, args[0])
		return nil
	}

	if ingestTitle == "" || ingestContent == "" {
		return fmt.Errorf("provide a URL, or both --title and --content")
	}
	id, err := container.Knowledge().Add(ctx, cfg.Workspace, schema.KnowledgeItem{
		Title:    ingestTitle,
		Content:  ingestContent,
		Category: ingestCategory,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added item %s\n", id)
	return nil
}
