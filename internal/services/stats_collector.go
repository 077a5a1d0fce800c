package services

import (
	"context"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"github.com/maxaizer/career-wizard/internal/logger"
	"github.com/maxaizer/career-wizard/internal/metrics"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

type CareerStatsRepository interface {
	CountAllByStatus(ctx context.Context) (map[models.Status]int64, error)
}

type StatsCollector struct {
	careers CareerStatsRepository
	cron    *cron.Cron
}

func NewStatsCollector(careers CareerStatsRepository, schedule string) (*StatsCollector, error) {

	if schedule == "" {
		return nil, errors.New("stats schedule must not be empty")
	}

	sc := &StatsCollector{
		careers: careers,
		cron:    cron.New(),
	}

	_, err := sc.cron.AddFunc(schedule, sc.collect)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid stats schedule %q", schedule)
	}

	return sc, nil
}

func (sc *StatsCollector) Start() {
	sc.collect()
	sc.cron.Start()
	log.Info("career stats collector started")
}

func (sc *StatsCollector) Stop() {
	<-sc.cron.Stop().Done()
}

func (sc *StatsCollector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := sc.careers.CountAllByStatus(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to collect career stats: %v", err)
		return
	}

	for _, status := range []models.Status{models.StatusActive, models.StatusInactive} {
		metrics.CareersGauge.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	log.Debugf("career stats collected: %v", counts)
}
