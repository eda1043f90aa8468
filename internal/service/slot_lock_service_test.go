package service

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSlotLockSerializesSameDate(t *testing.T) {
	svc := NewSlotLockService(quietLogger())
	defer svc.Stop()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.WithLock("2030-01-01", func() error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("critical section entered concurrently (max %d)", maxSeen)
	}
}

func TestSlotLockCleanupSkipsHeldLocks(t *testing.T) {
	svc := NewSlotLockService(quietLogger())
	defer svc.Stop()

	svc.WithLock("2030-01-01", func() error { return nil })
	unlock := svc.Lock("2030-01-02")

	cleaned := svc.cleanupStale(time.Now().Add(time.Hour))
	unlock()

	if cleaned != 1 {
		t.Fatalf("cleaned %d locks, want 1", cleaned)
	}
	if _, ok := svc.dateMu.Load("2030-01-02"); !ok {
		t.Fatal("held lock must survive cleanup")
	}
}

func TestSlotLockStopIsIdempotent(t *testing.T) {
	svc := NewSlotLockService(quietLogger())
	svc.Stop()
	svc.Stop()
}
