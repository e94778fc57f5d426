// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSweepScheduler runs the periodic session-guard sweep so expired
// guards do not accumulate between requests.
func (s *SessionService) StartSweepScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			s.Sweep()
		}),
	)

	log.Println("🕒 Session sweep scheduler started (every 1m)")
}
