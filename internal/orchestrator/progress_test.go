package orchestrator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReporter_HandlesInOrder(t *testing.T) {
	var got []ProgressStatus
	pr := NewProgressReporter(func(ev ProgressEvent) {
		got = append(got, ev.Status)
	})

	pr.Emit(ProgressEvent{Agent: "PolicyAgent", Status: ProgressPending})
	pr.Emit(ProgressEvent{Agent: "PolicyAgent", Status: ProgressWorking})
	pr.Emit(ProgressEvent{Agent: "PolicyAgent", Status: ProgressComplete})

	assert.Zero(t, pr.Close())
	assert.Equal(t, []ProgressStatus{ProgressPending, ProgressWorking, ProgressComplete}, got)
}

func TestProgressReporter_FullQueueDropsWithoutBlocking(t *testing.T) {
	release := make(chan struct{})
	var handled int
	pr := NewProgressReporter(func(ProgressEvent) {
		<-release
		handled++
	})

	// The consumer is stuck on the first event, so at most one queue's
	// worth of the rest can be buffered.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 2*progressQueueSize; i++ {
			pr.Emit(ProgressEvent{Agent: "ProviderAgent", Status: ProgressWorking})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full queue")
	}

	close(release)
	dropped := pr.Close()
	assert.Positive(t, dropped)
	assert.Equal(t, int64(2*progressQueueSize), int64(handled)+dropped)
}

func TestProgressReporter_EmitAfterCloseIsIgnored(t *testing.T) {
	var handled int
	pr := NewProgressReporter(func(ProgressEvent) { handled++ })
	pr.Emit(ProgressEvent{Agent: "ResearchAgent", Status: ProgressComplete})
	pr.Close()

	require.NotPanics(t, func() {
		pr.Emit(ProgressEvent{Agent: "ResearchAgent", Status: ProgressFailed})
	})
	assert.Zero(t, pr.Close())
	assert.Equal(t, 1, handled)
}

func TestProgressReporter_ConcurrentEmitters(t *testing.T) {
	counts := map[string]int{}
	pr := NewProgressReporter(func(ev ProgressEvent) { counts[ev.Agent]++ })

	var wg sync.WaitGroup
	for _, name := range []string{"PolicyAgent", "ResearchAgent", "ProviderAgent"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pr.Emit(ProgressEvent{Agent: name, Status: ProgressPending})
			pr.Emit(ProgressEvent{Agent: name, Status: ProgressWorking})
			pr.Emit(ProgressEvent{Agent: name, Status: ProgressComplete})
		}()
	}
	wg.Wait()

	require.Zero(t, pr.Close())
	assert.Equal(t, map[string]int{"PolicyAgent": 3, "ResearchAgent": 3, "ProviderAgent": 3}, counts)
}

func TestFormatProgress_AllStatuses(t *testing.T) {
	tests := []struct {
		name   string
		event  ProgressEvent
		expect string
	}{
		{
			name:   "pending",
			event:  ProgressEvent{Agent: "PolicyAgent", Status: ProgressPending},
			expect: "  ○ PolicyAgent (pending)",
		},
		{
			name:   "working",
			event:  ProgressEvent{Agent: "PolicyAgent", Status: ProgressWorking},
			expect: "  ● PolicyAgent...",
		},
		{
			name:   "complete",
			event:  ProgressEvent{Agent: "PolicyAgent", Status: ProgressComplete},
			expect: "  ✓ PolicyAgent answered",
		},
		{
			name:   "failed",
			event:  ProgressEvent{Agent: "PolicyAgent", Status: ProgressFailed, Message: "timeout"},
			expect: "  ✗ PolicyAgent failed: timeout",
		},
		{
			name:   "unknown",
			event:  ProgressEvent{Agent: "PolicyAgent", Status: "bogus"},
			expect: "  ? PolicyAgent (unknown status)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatProgress(tt.event)
			assert.Equal(t, tt.expect, got)
		})
	}
}
