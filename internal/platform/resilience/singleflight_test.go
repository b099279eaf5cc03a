package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCallers(t *testing.T) {
	var flight SingleFlight
	var executions atomic.Int32
	var sharedResults atomic.Int32

	const callers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, shared := flight.Do("standings:7", func() (any, error) {
				executions.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "table", nil
			})
			if err != nil {
				t.Errorf("Do: %v", err)
				return
			}
			if val != "table" {
				t.Errorf("val = %v, want table", val)
			}
			if shared {
				sharedResults.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("function ran %d times, want 1", got)
	}
	if got := sharedResults.Load(); got != callers-1 {
		t.Fatalf("%d callers got a shared result, want %d", got, callers-1)
	}
}

func TestSingleFlight_KeysAreIndependent(t *testing.T) {
	var flight SingleFlight

	val, err, shared := flight.Do("standings:7", func() (any, error) { return 7, nil })
	if err != nil || shared || val != 7 {
		t.Fatalf("first key: val=%v err=%v shared=%v", val, err, shared)
	}

	val, err, shared = flight.Do("standings:8", func() (any, error) { return 8, nil })
	if err != nil || shared || val != 8 {
		t.Fatalf("second key: val=%v err=%v shared=%v", val, err, shared)
	}
}
