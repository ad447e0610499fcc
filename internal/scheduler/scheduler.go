package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-lookup-service/internal/history"
	"github.com/i474232898/weather-lookup-service/internal/weather"
)

// Warmer is the slice of the weather engine the warm job needs. A call for a
// city whose cache entry expired repopulates it.
type Warmer interface {
	CurrentWeather(ctx context.Context, city string) (*weather.Current, error)
}

// CityLister supplies the cities worth keeping warm.
type CityLister interface {
	TopCities(ctx context.Context, limit int) ([]history.CityCount, error)
}

// Scheduler periodically refreshes cached weather for the most-queried
// cities so popular lookups stay hot.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	cities    CityLister
	interval  time.Duration
	topN      int
	log       *logrus.Logger
}

// New creates a Scheduler warming the topN most-queried cities every interval.
func New(warmer Warmer, cities CityLister, interval time.Duration, topN int, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		warmer:    warmer,
		cities:    cities,
		interval:  interval,
		topN:      topN,
		log:       log,
	}
}

// Start schedules the periodic warm job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.warmOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) warmOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cities, err := s.cities.TopCities(ctx, s.topN)
	if err != nil {
		s.log.WithError(err).Warn("scheduler: listing top cities failed")
		return
	}
	if len(cities) == 0 {
		s.log.Debug("scheduler: no cities to warm")
		return
	}

	for _, c := range cities {
		if _, err := s.warmer.CurrentWeather(ctx, c.City); err != nil {
			s.log.WithError(err).WithField("city", c.City).Warn("scheduler: warm fetch failed")
		}
	}
	s.log.WithField("count", len(cities)).Info("scheduler: completed cache warm job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
