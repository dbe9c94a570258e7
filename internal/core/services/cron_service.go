package services

import (
	"context"
	"log"
	"time"

	"ems-backend/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService reports attendance sessions left open for too long.
// It only logs; records are never modified.
type CronService struct {
	attendanceRepo repositories.AttendanceRepository
	scheduler      *cron.Cron
	spec           string
	staleAfter     time.Duration
	now            func() time.Time
}

// NewCronService creates a new cron service
func NewCronService(attendanceRepo repositories.AttendanceRepository, spec string, staleAfter time.Duration) *CronService {
	return &CronService{
		attendanceRepo: attendanceRepo,
		scheduler:      cron.New(),
		spec:           spec,
		staleAfter:     staleAfter,
		now:            time.Now,
	}
}

// Start schedules the stale-session report; a non-positive threshold disables it
func (s *CronService) Start() error {
	if s.staleAfter <= 0 {
		log.Println("⏸️ Stale session report disabled")
		return nil
	}

	if _, err := s.scheduler.AddFunc(s.spec, func() {
		if _, err := s.ReportStaleSessions(context.Background()); err != nil {
			log.Printf("❌ Stale session report failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.scheduler.Start()
	log.Printf("🚀 CronService started [%s, stale after %s]", s.spec, s.staleAfter)
	return nil
}

// Stop waits for a running job to finish
func (s *CronService) Stop() {
	<-s.scheduler.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// ReportStaleSessions logs every open session older than the threshold and returns how many were found
func (s *CronService) ReportStaleSessions(ctx context.Context) (int, error) {
	now := s.now()
	records, err := s.attendanceRepo.ListOpenStartedBefore(ctx, now.Add(-s.staleAfter))
	if err != nil {
		return 0, err
	}

	for _, r := range records {
		log.Printf("⚠️ Open session %s for %s since %s (%.1fh)",
			r.ID, r.EmployeeID, r.ClockIn.Format(time.RFC3339), now.Sub(r.ClockIn).Hours())
	}
	if len(records) > 0 {
		log.Printf("⚠️ %d attendance session(s) open longer than %s", len(records), s.staleAfter)
	}
	return len(records), nil
}
