package service

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSlotLockService_SerializesOneKey(t *testing.T) {
	svc := NewSlotLockService(quietLogger(), time.Hour, time.Hour)
	defer svc.Stop()

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		maxSeen atomic.Int32
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := svc.Lock("p1:2026-11-02:09:30")
			defer unlock()

			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			counter++
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Equal(t, 50, counter)
}

func TestSlotLockService_DifferentKeysDoNotContend(t *testing.T) {
	svc := NewSlotLockService(quietLogger(), time.Hour, time.Hour)
	defer svc.Stop()

	unlock := svc.Lock("p1:2026-11-02:09:30")
	defer unlock()

	acquired := make(chan struct{})
	go func() {
		release := svc.Lock("p1:2026-11-02:10:00")
		release()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on a different slot blocked")
	}
	assert.Equal(t, 2, svc.Len())
}

func TestSlotLockService_CleanupStale(t *testing.T) {
	svc := NewSlotLockService(quietLogger(), time.Hour, time.Minute)
	defer svc.Stop()

	svc.Lock("idle")()
	held := svc.Lock("held")
	defer held()

	assert.Equal(t, 0, svc.cleanupStale(time.Now()))
	assert.Equal(t, 1, svc.cleanupStale(time.Now().Add(time.Hour)))
	assert.Equal(t, 1, svc.Len())

	// a cleaned key is recreated on next use
	svc.Lock("idle")()
	assert.Equal(t, 2, svc.Len())
}

func TestSlotLockService_StopIsIdempotent(t *testing.T) {
	svc := NewSlotLockService(quietLogger(), 0, 0)
	assert.Equal(t, defaultLockCleanupInterval, svc.cleanupInterval)
	assert.Equal(t, defaultLockStaleThreshold, svc.staleThreshold)

	svc.Stop()
	svc.Stop()
}
