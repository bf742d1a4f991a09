package insight

import (
	"context"
	"log"
	"time"

	"github.com/shubhamgosaii/growthosai/internal/ai"
	"github.com/shubhamgosaii/growthosai/internal/models"
	"github.com/shubhamgosaii/growthosai/internal/store"

	"github.com/google/uuid"
)

// Publisher pushes a recorded insight to live dashboard subscribers.
type Publisher interface {
	Publish(event string, payload interface{})
}

// autoRunPrompt is the canned question used by the scheduled health check
// and the manual auto-run endpoint.
const autoRunPrompt = "Summarize overall company health: attendance, pending leaves, sales and project risks."

// Service runs the whole query pipeline: aggregate fetch, metrics, intent
// routing, relevance selection, prompt composition, completion, and the
// best-effort insight append.
type Service struct {
	store     store.Store
	completer ai.Completer
	publisher Publisher
	now       func() time.Time
}

type ServiceOption func(*Service)

func WithPublisher(p Publisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(st store.Store, completer ai.Completer, opts ...ServiceOption) *Service {
	s := &Service{store: st, completer: completer, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type QueryResult struct {
	Reply   string                 `json:"reply"`
	Intent  Intent                 `json:"intent"`
	Metrics models.MetricsSnapshot `json:"metrics"`
}

// Query answers one free-text question. The insight append after a
// successful completion is best effort: a failed append is logged and the
// reply is still returned.
func (s *Service) Query(ctx context.Context, prompt string, mode Mode) (QueryResult, error) {
	insight, err := s.run(ctx, prompt, mode, "insight")
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Reply: insight.Reply, Intent: Intent(insight.Intent), Metrics: insight.Metrics}, nil
}

// AutoRun executes the canned health-summary question and returns the
// recorded alert.
func (s *Service) AutoRun(ctx context.Context) (models.Insight, error) {
	return s.run(ctx, autoRunPrompt, ModeBoth, "alert")
}

func (s *Service) run(ctx context.Context, prompt string, mode Mode, event string) (models.Insight, error) {
	agg, err := FetchAggregate(ctx, s.store)
	if err != nil {
		return models.Insight{}, err
	}

	metrics := ComputeMetrics(agg)
	intent := ClassifyIntent(prompt)
	selected := SelectRelevant(intent, agg)
	composed := ComposePrompt(mode, agg.AIConfig["persona"], metrics, selected, prompt)

	reply, err := s.completer.Complete(ctx, composed)
	if err != nil {
		return models.Insight{}, err
	}

	insight := models.Insight{
		InsightID: uuid.NewString(),
		Prompt:    prompt,
		Intent:    string(intent),
		Reply:     reply,
		Metrics:   metrics,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertInsight(ctx, insight); err != nil {
		log.Printf("insight append failed (reply still returned): %v", err)
	}
	if s.publisher != nil {
		s.publisher.Publish(event, insight)
	}
	return insight, nil
}
