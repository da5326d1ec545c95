// Package trigger polls the account store on a schedule and fires the
// generation handler for every financial report that has accumulated enough
// rows and has not been processed yet.
package trigger

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"jkouame/tft-engine/internal/store"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// DefaultMinRows is the row threshold below which a report is considered
// still uploading and is left alone.
const DefaultMinRows = 10

// Handler generates the TFT for one financial report.
type Handler func(ctx context.Context, reportID string) error

// Watcher scans the store for reports ready to process.
type Watcher struct {
	store    store.Store
	handler  Handler
	minRows  int
	schedule string
	cron     *cron.Cron
}

// NewWatcher creates a watcher. minRows of zero or less falls back to the
// default threshold.
func NewWatcher(s store.Store, handler Handler, minRows int, schedule string) *Watcher {
	if minRows <= 0 {
		minRows = DefaultMinRows
	}
	if schedule == "" {
		schedule = "@every 1m"
	}
	return &Watcher{
		store:    s,
		handler:  handler,
		minRows:  minRows,
		schedule: schedule,
	}
}

// Start begins the polling loop. It returns after scheduling; Stop ends it.
func (w *Watcher) Start(ctx context.Context) error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.schedule, func() {
		w.Scan(ctx)
	}); err != nil {
		return err
	}
	w.cron.Start()
	log.WithField("schedule", w.schedule).Info("Watcher started")
	return nil
}

// Stop ends the polling loop and waits for a running scan to finish.
func (w *Watcher) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
	log.Info("Watcher stopped")
}

// Scan runs one pass over every known report. Reports below the row
// threshold or already processed are skipped; handler failures are logged
// and do not stop the pass.
func (w *Watcher) Scan(ctx context.Context) {
	ids, err := w.store.ListReportIDs(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list reports")
		return
	}

	for _, id := range ids {
		processed, err := w.store.HasSuccessfulRun(ctx, id)
		if err != nil {
			log.WithError(err).WithField("report", id).Error("Failed to check runs")
			continue
		}
		if processed {
			continue
		}

		count, err := w.store.CountRows(ctx, id)
		if err != nil {
			log.WithError(err).WithField("report", id).Error("Failed to count rows")
			continue
		}
		if count < w.minRows {
			log.WithFields(logrus.Fields{
				"report": id,
				"rows":   count,
				"min":    w.minRows,
			}).Debug("Report below row threshold, skipping")
			continue
		}

		log.WithFields(logrus.Fields{
			"report": id,
			"rows":   count,
		}).Info("Triggering TFT generation")
		if err := w.handler(ctx, id); err != nil {
			log.WithError(err).WithField("report", id).Error("Generation failed")
		}
	}
}
