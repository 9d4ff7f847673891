package spi

import (
	"context"
	"fmt"
	"time"

	"golang-w5500d/internal/port"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// DeviceLock is an adapter that implements the BusLocker port with an advisory file lock, so that
// other processes sharing the SPI device (e.g. the inspect command) never interleave frames with the daemon.
type DeviceLock struct {
	flock *flock.Flock
}

// Ensure DeviceLock implements the BusLocker port
var _ port.BusLocker = (*DeviceLock)(nil)

// NewDeviceLock creates a lock backed by the file at path. The file is created if missing.
func NewDeviceLock(path string) *DeviceLock {
	return &DeviceLock{flock: flock.New(path)}
}

// Lock blocks until the file lock is held or ctx is done.
func (l *DeviceLock) Lock(ctx context.Context) error {
	locked, err := l.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", l.flock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("failed to lock %s", l.flock.Path())
	}
	return nil
}

// Unlock releases the file lock.
func (l *DeviceLock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.flock.Path(), err)
	}
	return nil
}

// NopLock is a BusLocker for buses nothing else can reach.
type NopLock struct{}

var _ port.BusLocker = NopLock{}

func (NopLock) Lock(ctx context.Context) error { return ctx.Err() }

func (NopLock) Unlock() error { return nil }
