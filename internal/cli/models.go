package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"energyd/internal/config"
	"energyd/internal/registry"
)

func listModels(ctx context.Context, cfg config.Config, o *Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := registry.Open(cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	models, err := store.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(o.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tCREATED\tSIZE\tSHA256")
	for _, m := range models {
		created := time.Unix(m.CreatedAt, 0).UTC().Format(time.RFC3339)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", m.Name, m.Version, created, m.SizeBytes, m.SHA256)
	}
	return tw.Flush()
}
