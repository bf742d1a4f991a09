package worker

import (
	"context"
	"log"
	"time"

	"github.com/shubhamgosaii/growthosai/internal/models"
)

// Runner produces one scheduled insight; satisfied by insight.Service.
type Runner interface {
	AutoRun(ctx context.Context) (models.Insight, error)
}

// Start runs the periodic health-summary loop until ctx is canceled. A
// failed run is logged and the loop keeps going; the worker never takes
// the service down.
func Start(ctx context.Context, interval time.Duration, runner Runner) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			alert, err := runner.AutoRun(ctx)
			if err != nil {
				log.Printf("auto-run error: %v", err)
				continue
			}
			log.Printf("auto-run recorded insight %s intent=%s", alert.InsightID, alert.Intent)
		}
	}
}
