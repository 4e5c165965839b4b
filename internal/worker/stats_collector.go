package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/metrics"
)

// collectTimeout bounds one collection run
const collectTimeout = 30 * time.Second

// StatsCollector periodically refreshes the session and catalog gauges
type StatsCollector struct {
	audits   audit.Service
	catalog  catalog.Service
	schedule string
	cron     *cron.Cron
	logger   *logger.Logger
}

// NewStatsCollector creates a collector running on a standard five-field
// cron schedule
func NewStatsCollector(audits audit.Service, catalogService catalog.Service, schedule string, log *logger.Logger) (*StatsCollector, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid stats schedule %q: %w", schedule, err)
	}
	return &StatsCollector{
		audits:   audits,
		catalog:  catalogService,
		schedule: schedule,
		cron:     cron.New(),
		logger:   log,
	}, nil
}

// Start collects once and then on every tick of the schedule
func (c *StatsCollector) Start(ctx context.Context) error {
	c.Collect(ctx)

	if _, err := c.cron.AddFunc(c.schedule, func() { c.Collect(ctx) }); err != nil {
		return err
	}
	c.cron.Start()

	c.logger.WithFields(map[string]interface{}{
		"schedule": c.schedule,
	}).Info("Stats collector started")
	return nil
}

// Stop waits for a running collection to finish
func (c *StatsCollector) Stop() {
	<-c.cron.Stop().Done()
	c.logger.Info("Stats collector stopped")
}

// Collect reads the current counts and sets the gauges
func (c *StatsCollector) Collect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	byStatus, err := c.audits.CountByStatus(ctx)
	if err != nil {
		c.logger.ErrorWithErr(err, "Failed to count audit sessions")
	} else {
		for status, n := range byStatus {
			metrics.SetSessionsByStatus(status, float64(n))
		}
	}

	counts, err := c.catalog.Counts(ctx)
	if err != nil {
		c.logger.ErrorWithErr(err, "Failed to count catalog rows")
		return
	}
	metrics.SetCatalogSize("platforms", float64(counts.Platforms))
	metrics.SetCatalogSize("benchmarks", float64(counts.Benchmarks))
	metrics.SetCatalogSize("sections", float64(counts.Sections))
	metrics.SetCatalogSize("checks", float64(counts.Checks))

	c.logger.WithFields(map[string]interface{}{
		"sessions": byStatus,
		"checks":   counts.Checks,
	}).Debug("Stats collected")
}
