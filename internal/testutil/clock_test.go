// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"testing"
	"time"
)

func TestFakeClock(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	c := NewFakeClock(start)

	if got := c.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}
	c.Advance(time.Minute)
	if got := c.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("after Advance, Now() = %v", got)
	}
	c.Set(start)
	c.Tick(time.Second)
	c.Now()
	if got := c.Now(); !got.Equal(start.Add(time.Second)) {
		t.Errorf("with Tick, second Now() = %v, want %v", got, start.Add(time.Second))
	}
}

func TestFakeClock_DefaultTime(t *testing.T) {
	t.Parallel()

	if got := NewFakeClock(time.Time{}).Now(); got.Year() != 2020 {
		t.Errorf("default time = %v, want 2020-01-01", got)
	}
}

func TestFakeClock_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(time.Time{}).Tick(time.Millisecond)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Now()
		}()
	}
	wg.Wait()
	if got := c.Now().Sub(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)); got != 50*time.Millisecond {
		t.Errorf("elapsed = %v, want 50ms", got)
	}
}
