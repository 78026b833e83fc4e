package scheduler

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/service"
)

// ReportScheduler generates the consolidated report for the previous month
// on a cron schedule.
type ReportScheduler struct {
	reports service.ReportService
	clock   clockwork.Clock
	cron    *cron.Cron
	spec    string
	logger  *logrus.Logger
}

func NewReportScheduler(reports service.ReportService, clock clockwork.Clock, spec string, logger *logrus.Logger) *ReportScheduler {
	return &ReportScheduler{
		reports: reports,
		clock:   clock,
		cron:    cron.New(),
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the monthly job and starts the cron loop in its own
// goroutine.
func (s *ReportScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.WithFields(logrus.Fields{
		"scheduler": "reports",
		"spec":      s.spec,
	}).Info("report scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *ReportScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *ReportScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// First day of the current month minus one day lands in the previous
	// month regardless of month length.
	now := s.clock.Now()
	period := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -1).Format("2006-01")
	report, err := s.reports.GenerateConsolidated(ctx, period)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"scheduler": "reports",
			"period":    period,
		}).WithError(err).Error("scheduled report generation failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"scheduler": "reports",
		"period":    period,
		"total":     report.TotalIncidents,
	}).Info("scheduled report generated")
}
