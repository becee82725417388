package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFlightCollapsesConcurrentCalls(t *testing.T) {
	var f Flight
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		val, err, _ := f.Do("standings", func() (any, error) {
			calls.Add(1)
			close(entered)
			<-release
			return 42, nil
		})
		if err != nil || val != 42 {
			t.Errorf("leader: val=%v err=%v", val, err)
		}
	}()

	<-entered
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err, shared := f.Do("standings", func() (any, error) {
				calls.Add(1)
				return 0, nil
			})
			if err != nil || val != 42 || !shared {
				t.Errorf("follower: val=%v err=%v shared=%v", val, err, shared)
			}
		}()
	}

	// Give followers time to park on the in-flight call before the leader
	// is allowed to finish.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestFlightDistinctKeysRunIndependently(t *testing.T) {
	var f Flight
	var calls atomic.Int32

	for _, key := range []string{"a", "b", "a"} {
		_, err, shared := f.Do(key, func() (any, error) {
			calls.Add(1)
			return nil, nil
		})
		if err != nil {
			t.Fatalf("Do(%q): %v", key, err)
		}
		if shared {
			t.Fatalf("Do(%q) reported shared result with no concurrent caller", key)
		}
	}

	if got := calls.Load(); got != 3 {
		t.Fatalf("sequential calls ran %d times, want 3", got)
	}
}
