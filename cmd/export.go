package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"loghistory-backend/internal/kafka"
	"loghistory-backend/internal/metrics"
	"loghistory-backend/internal/model"
	"loghistory-backend/internal/service"
	"loghistory-backend/internal/upstream"
	"loghistory-backend/internal/viewstate"
)

func exportCmd() *cobra.Command {
	var (
		category string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch the log history once and write a category to an .xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := model.ParseCategory(category)
			if err != nil {
				return err
			}
			cfg, err := NewConfig()
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.Export.Filename
			}

			svc := service.NewLogHistoryService(
				upstream.NewEntityRepository(cfg),
				kafka.NoopPublisher{},
				metrics.New(prometheus.NewRegistry()),
				cfg,
			)
			if refresh := svc.Refresh(cmd.Context()); refresh.Status != viewstate.StatusLoaded {
				return errors.New("fetching logs failed, nothing exported")
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			n, err := svc.Export(cmd.Context(), cat, f)
			if err != nil {
				return err
			}
			log.Info().Str("file", out).Str("category", string(cat)).Int("rows", n).Msg("Export written")
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", string(model.CategoryAll), "category to export")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default EXPORT_FILENAME)")
	return cmd
}
