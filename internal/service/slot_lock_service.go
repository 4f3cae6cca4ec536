package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	defaultLockCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	defaultLockStaleThreshold = 10 * time.Minute
)

// SlotLocker serializes work on one slot key within this process.
type SlotLocker interface {
	// Lock blocks until key is held and returns its release func.
	Lock(key string) (unlock func())
}

// SlotLockService keeps one mutex per slot key.
//
// Keys are "provider:date:time", so requests for different providers or
// different times of the same provider never contend. Unused mutexes are
// dropped by a background loop; call Stop() during graceful shutdown.
type SlotLockService struct {
	log *logrus.Logger

	locks sync.Map // map[string]*mutexWithTimestamp

	cleanupInterval time.Duration
	staleThreshold  time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix nanoseconds
}

// NewSlotLockService creates the registry and starts the cleanup goroutine.
// Zero durations fall back to ten minutes.
func NewSlotLockService(log *logrus.Logger, cleanupInterval, staleThreshold time.Duration) *SlotLockService {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultLockCleanupInterval
	}
	if staleThreshold <= 0 {
		staleThreshold = defaultLockStaleThreshold
	}

	svc := &SlotLockService{
		log:             log,
		cleanupInterval: cleanupInterval,
		staleThreshold:  staleThreshold,
		stopChan:        make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupLoop()

	return svc
}

// Stop gracefully shuts down the cleanup loop.
// Safe to call multiple times.
func (s *SlotLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotLockService stopped")
	}
}

func (s *SlotLockService) Lock(key string) func() {
	for {
		mt := s.getMutex(key)
		mt.mu.Lock()

		// the cleanup loop may have dropped this mutex between LoadOrStore and
		// Lock; holding a mutex that is no longer registered would not exclude
		// a newcomer, so retry with the registered one
		if current, ok := s.locks.Load(key); ok && current == mt {
			mt.lastUsed.Store(time.Now().UnixNano())
			return mt.mu.Unlock
		}
		mt.mu.Unlock()
	}
}

// Len reports how many keys currently have a mutex.
func (s *SlotLockService) Len() int {
	n := 0
	s.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// getMutex returns mutex for a specific slot key
func (s *SlotLockService) getMutex(key string) *mutexWithTimestamp {
	mt, _ := s.locks.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().UnixNano())
	return result
}

// cleanupLoop runs in background to clean stale mutexes
func (s *SlotLockService) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Slot lock cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStale(time.Now())
		}
	}
}

// cleanupStale removes unused mutexes. TryLock skips mutexes in use and the
// lastUsed check happens under the lock.
func (s *SlotLockService) cleanupStale(now time.Time) int {
	cutoff := now.Add(-s.staleThreshold).UnixNano()
	var cleaned int

	s.locks.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoff {
				s.locks.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale slot mutexes", cleaned)
	}
	return cleaned
}
