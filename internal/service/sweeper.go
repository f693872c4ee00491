package service

import (
	"VaultDrop/internal/repo"
	"VaultDrop/model"
	"context"
	"log"
	"time"
)

// Sweeper periodically tears down records past their expiry,
// independent of request traffic. Owned by main: started on boot,
// stopped on shutdown. Now is injectable so tests can simulate time.
type Sweeper struct {
	Interval time.Duration
	Now      func() time.Time

	stop chan struct{}
	done chan struct{}
}

// NewSweeper builds a sweeper with the given interval.
func NewSweeper(interval time.Duration) *Sweeper {
	return &Sweeper{
		Interval: interval,
		Now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start() {
	go s.run()
}

// Stop halts the loop and waits for the current cycle to finish.
// An in-flight teardown that gets cut off is picked up next boot.
func (s *Sweeper) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.RunSweep(context.Background())
		}
	}
}

// RunSweep executes one sweep cycle: every record at or past expiry is
// torn down. One bad record never aborts the cycle; a partial teardown
// is counted as failed. When Redis is available a
// lock keeps concurrent instances from sweeping the same cycle twice,
// though a double sweep would still be harmless.
func (s *Sweeper) RunSweep(ctx context.Context) (processed, failed int) {
	if repo.Redis != nil {
		lock := repo.NewRedisLock(repo.Redis, "sweep:lock", lockTTL(s.Interval))
		if err := lock.Lock(ctx); err != nil {
			log.Printf("sweep: skipped, %v", err)
			return 0, 0
		}
		defer lock.Unlock(ctx)
	}

	now := s.Now()
	var expired []model.FileRecord
	if err := repo.Db.Where("expires_at <= ?", now).Find(&expired).Error; err != nil {
		log.Printf("sweep: query expired failed: %v", err)
		return 0, 1
	}

	for i := range expired {
		out := TeardownRecord(ctx, &expired[i])
		if out.Partial() {
			failed++
			continue
		}
		processed++
	}

	log.Printf("sweep: cycle done, processed=%d failed=%d", processed, failed)
	return processed, failed
}

func lockTTL(interval time.Duration) time.Duration {
	if interval <= 0 || interval > 5*time.Minute {
		return 5 * time.Minute
	}
	return interval
}
