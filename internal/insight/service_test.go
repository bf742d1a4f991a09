package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shubhamgosaii/growthosai/internal/models"
	"github.com/shubhamgosaii/growthosai/internal/store"
)

type fakeStore struct {
	createEmployeeFn func(ctx context.Context, input store.CreateEmployeeInput) (string, error)
	usersFn          func(ctx context.Context) ([]models.User, error)
	attendanceFn     func(ctx context.Context) ([]models.AttendanceRecord, error)
	leavesFn         func(ctx context.Context) ([]models.LeaveRequest, error)
	insightsFn       func(ctx context.Context, limit int) ([]models.Insight, error)
	performanceFn    func(ctx context.Context) ([]models.PerformanceReview, error)
	salesFn          func(ctx context.Context) ([]models.SalesRecord, error)
	projectsFn       func(ctx context.Context) ([]models.Project, error)
	aiConfigFn       func(ctx context.Context) (map[string]string, error)
	insertInsightFn  func(ctx context.Context, insight models.Insight) error
}

func (f fakeStore) CreateEmployee(ctx context.Context, input store.CreateEmployeeInput) (string, error) {
	if f.createEmployeeFn == nil {
		return "", nil
	}
	return f.createEmployeeFn(ctx, input)
}

func (f fakeStore) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	return models.User{}, nil
}

func (f fakeStore) FindUserInDepartment(ctx context.Context, department, email string) (models.User, error) {
	return models.User{}, store.ErrUserNotFound
}

func (f fakeStore) ListUsers(ctx context.Context) ([]models.User, error) {
	if f.usersFn == nil {
		return nil, nil
	}
	return f.usersFn(ctx)
}

func (f fakeStore) MarkAttendance(ctx context.Context, uid, day string, at time.Time) (store.MarkAttendanceResult, error) {
	return store.MarkAttendanceResult{}, nil
}

func (f fakeStore) ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	if f.attendanceFn == nil {
		return nil, nil
	}
	return f.attendanceFn(ctx)
}

func (f fakeStore) CreateLeaveRequest(ctx context.Context, input store.LeaveRequestInput) (models.LeaveRequest, error) {
	return models.LeaveRequest{}, nil
}

func (f fakeStore) SetLeaveStatus(ctx context.Context, leaveID, status string) error {
	return nil
}

func (f fakeStore) ListLeaves(ctx context.Context) ([]models.LeaveRequest, error) {
	if f.leavesFn == nil {
		return nil, nil
	}
	return f.leavesFn(ctx)
}

func (f fakeStore) ListLeavesByUser(ctx context.Context, uid string) ([]models.LeaveRequest, error) {
	return nil, nil
}

func (f fakeStore) InsertInsight(ctx context.Context, insight models.Insight) error {
	if f.insertInsightFn == nil {
		return nil
	}
	return f.insertInsightFn(ctx, insight)
}

func (f fakeStore) ListInsights(ctx context.Context, limit int) ([]models.Insight, error) {
	if f.insightsFn == nil {
		return nil, nil
	}
	return f.insightsFn(ctx, limit)
}

func (f fakeStore) ListPerformance(ctx context.Context) ([]models.PerformanceReview, error) {
	if f.performanceFn == nil {
		return nil, nil
	}
	return f.performanceFn(ctx)
}

func (f fakeStore) ListSales(ctx context.Context) ([]models.SalesRecord, error) {
	if f.salesFn == nil {
		return nil, nil
	}
	return f.salesFn(ctx)
}

func (f fakeStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	if f.projectsFn == nil {
		return nil, nil
	}
	return f.projectsFn(ctx)
}

func (f fakeStore) GetAIConfig(ctx context.Context) (map[string]string, error) {
	if f.aiConfigFn == nil {
		return nil, nil
	}
	return f.aiConfigFn(ctx)
}

type fakeCompleter struct {
	fn func(ctx context.Context, prompt string) (string, error)
}

func (f fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if f.fn == nil {
		return "ok", nil
	}
	return f.fn(ctx, prompt)
}

func TestFetchAggregateDefaultsToEmpty(t *testing.T) {
	agg, err := FetchAggregate(context.Background(), fakeStore{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Users == nil || agg.Attendance == nil || agg.Leaves == nil || agg.Insights == nil ||
		agg.Performance == nil || agg.Sales == nil || agg.Projects == nil || agg.AIConfig == nil {
		t.Fatalf("missing subtrees must come back empty, not nil: %+v", agg)
	}
}

func TestFetchAggregateFailsWhole(t *testing.T) {
	boom := errors.New("store down")
	st := fakeStore{
		salesFn: func(ctx context.Context) ([]models.SalesRecord, error) {
			return nil, boom
		},
	}
	if _, err := FetchAggregate(context.Background(), st); !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestQueryReturnsReplyAndRecordsInsight(t *testing.T) {
	var recorded models.Insight
	st := fakeStore{
		usersFn: func(ctx context.Context) ([]models.User, error) {
			return []models.User{{UID: "u1", Department: "Engineering", Role: models.RoleEmployee}}, nil
		},
		insertInsightFn: func(ctx context.Context, insight models.Insight) error {
			recorded = insight
			return nil
		},
	}
	completer := fakeCompleter{
		fn: func(ctx context.Context, prompt string) (string, error) {
			return "One employee in Engineering.", nil
		},
	}

	svc := NewService(st, completer)
	result, err := svc.Query(context.Background(), "how many employees?", ModeBoth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reply != "One employee in Engineering." {
		t.Fatalf("unexpected reply: %s", result.Reply)
	}
	if result.Intent != IntentEmployee {
		t.Fatalf("expected EMPLOYEE intent, got %s", result.Intent)
	}
	if recorded.Reply != result.Reply || recorded.Intent != string(IntentEmployee) {
		t.Fatalf("insight not recorded correctly: %+v", recorded)
	}
	if recorded.Metrics.TotalEmployees != 1 {
		t.Fatalf("recorded metrics wrong: %+v", recorded.Metrics)
	}
}

func TestQueryReplyUnaffectedByRecorderFailure(t *testing.T) {
	st := fakeStore{
		insertInsightFn: func(ctx context.Context, insight models.Insight) error {
			return errors.New("insight table unavailable")
		},
	}
	svc := NewService(st, fakeCompleter{})
	result, err := svc.Query(context.Background(), "anything", ModeBoth)
	if err != nil {
		t.Fatalf("logging failure must not fail the query: %v", err)
	}
	if result.Reply != "ok" {
		t.Fatalf("unexpected reply: %s", result.Reply)
	}
}

func TestQueryCompletionErrorPropagates(t *testing.T) {
	inserted := false
	st := fakeStore{
		insertInsightFn: func(ctx context.Context, insight models.Insight) error {
			inserted = true
			return nil
		},
	}
	completer := fakeCompleter{
		fn: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("rate limited")
		},
	}
	svc := NewService(st, completer)
	if _, err := svc.Query(context.Background(), "anything", ModeBoth); err == nil {
		t.Fatal("expected error")
	}
	if inserted {
		t.Fatal("failed completions must not be recorded")
	}
}

type capturePublisher struct {
	event   string
	payload interface{}
}

func (p *capturePublisher) Publish(event string, payload interface{}) {
	p.event = event
	p.payload = payload
}

func TestAutoRunRecordsAndPublishesAlert(t *testing.T) {
	var recorded models.Insight
	st := fakeStore{
		insertInsightFn: func(ctx context.Context, insight models.Insight) error {
			recorded = insight
			return nil
		},
	}
	pub := &capturePublisher{}
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(st, fakeCompleter{}, WithPublisher(pub), WithClock(func() time.Time { return fixed }))

	alert, err := svc.AutoRun(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert.InsightID == "" || alert.Reply != "ok" {
		t.Fatalf("unexpected alert: %+v", alert)
	}
	if !alert.CreatedAt.Equal(fixed) {
		t.Fatalf("expected fixed timestamp, got %v", alert.CreatedAt)
	}
	if recorded.InsightID != alert.InsightID {
		t.Fatal("alert must be appended to the insight log")
	}
	if pub.event != "alert" {
		t.Fatalf("expected alert broadcast, got %q", pub.event)
	}
}
