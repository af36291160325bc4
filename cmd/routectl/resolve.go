package main

import (
	"encoding/json"
	"fmt"
	"journey-route-service/internal/adapters/cache"
	"journey-route-service/internal/adapters/routing"
	"journey-route-service/internal/config"
	"journey-route-service/internal/domain"
	"journey-route-service/internal/services"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newResolveCmd(getCfg func() *config.Config) *cobra.Command {
	var (
		file     string
		departAt string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a JSON array of stop records against the routing provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getCfg()

			var depart time.Time
			if departAt != "" {
				t, err := time.Parse(time.RFC3339, departAt)
				if err != nil {
					return fmt.Errorf("--depart-at must be RFC3339: %w", err)
				}
				depart = t
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %q: %w", file, err)
			}
			var records []domain.StopRecord
			if err := json.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("parse %q: %w", file, err)
			}

			fetcher, err := routing.NewOSRMSegmentFetcher(cfg.RoutingBaseURL, routing.WithRateLimit(cfg.RoutingRateLimit))
			if err != nil {
				return err
			}
			orch := services.NewRouteOrchestrator(
				fetcher,
				cache.NewSegmentCache(0, 0),
				services.WithMaxParallel(cfg.MaxParallelFetches),
				services.WithMaxStops(cfg.MaxStops),
				services.WithResolveTimeout(cfg.ResolveTimeout),
			)

			journey, err := orch.ResolveRecords(cmd.Context(), records)
			if err != nil {
				return err
			}

			var arrivals []time.Time
			if !depart.IsZero() {
				arrivals = journey.ArrivalTimes(depart)
			}
			for i, s := range journey.Stops {
				ev := log.Info().
					Int("stop", i).
					Str("role", string(s.Role)).
					Float64("lat", s.Latitude).
					Float64("lng", s.Longitude).
					Float64("cumulative_s", journey.PerStopCumulativeDuration[i])
				if arrivals != nil {
					ev = ev.Time("arrive_at", arrivals[i])
				}
				ev.Msg("stop")
			}

			sum := journey.Summary()
			log.Info().
				Float64("km", sum.TotalKilometers).
				Int("hours", sum.Hours).
				Int("minutes", sum.Minutes).
				Int("unresolved_segments", journey.UnresolvedSegments()).
				Bool("partial", journey.Partial()).
				Msgf("%.1f km, %dh %dm", sum.TotalKilometers, sum.Hours, sum.Minutes)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file holding an array of stop records")
	cmd.Flags().StringVar(&departAt, "depart-at", "", "departure time (RFC3339) for arrival estimates")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
