package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/climateiq/climate-aggregator/internal/climate"
	"github.com/go-co-op/gocron"
)

// Scheduler periodically refreshes cached global overview snapshots for the
// configured years.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *climate.Service
	years     []int
	interval  time.Duration
}

// New creates a new Scheduler.
func New(years []int, interval time.Duration, service *climate.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		years:     years,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.years) == 0 {
		log.Println("scheduler: no overview years configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running overview refresh job")

		var wg sync.WaitGroup
		for _, year := range s.years {
			year := year
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := s.service.RefreshOverview(ctx, year); err != nil {
					log.Printf("scheduler: overview refresh failed for %d: %v", year, err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed overview refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
