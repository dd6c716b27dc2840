// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"arena-clash/metrics"

	"github.com/go-co-op/gocron/v2"
)

// StartArchiveScheduler archives published tournaments once their start time
// passes. Tournaments are never deleted; archiving just takes them out of the
// enrollable set.
func (s *TournamentService) StartArchiveScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			n, err := s.Repo.ArchivePast(context.Background(), time.Now())
			if err != nil {
				log.Printf("[Archiver] DB error: %v", err)
				return
			}
			if n > 0 {
				metrics.TournamentsArchived.Add(float64(n))
				log.Printf("[Archiver] archived %d tournament(s)", n)
			}
		}),
	)
}
