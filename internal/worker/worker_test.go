package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shubhamgosaii/growthosai/internal/models"
)

type countingRunner struct {
	calls int64
	err   error
}

func (r *countingRunner) AutoRun(ctx context.Context) (models.Insight, error) {
	atomic.AddInt64(&r.calls, 1)
	return models.Insight{InsightID: "i1"}, r.err
}

func TestStartDisabledWithoutInterval(t *testing.T) {
	done := make(chan struct{})
	go func() {
		Start(context.Background(), 0, &countingRunner{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("zero interval must return immediately")
	}
}

func TestStartRunsAndSurvivesErrors(t *testing.T) {
	runner := &countingRunner{err: errors.New("provider down")}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Start(ctx, 5*time.Millisecond, runner)
		close(done)
	}()

	deadline := time.After(time.Second)
	for atomic.LoadInt64(&runner.calls) < 2 {
		select {
		case <-deadline:
			t.Fatal("worker did not keep running after an error")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}
