package store

import (
	"context"
	"time"

	"github.com/shubhamgosaii/growthosai/internal/models"
)

type CreateEmployeeInput struct {
	FullName   string
	Email      string
	Password   string
	Department string
	Role       string
	CreatedBy  string
}

type LeaveRequestInput struct {
	UID    string
	From   string
	To     string
	Reason string
}

type MarkAttendanceResult struct {
	Record     models.AttendanceRecord
	CheckedOut bool
}

// Store is the persistence boundary for the whole service. The original data
// lived in two hosted databases (a path-addressed tree and a document store);
// here both collapse into one Postgres schema behind this interface.
type Store interface {
	// Identity + users. CreateEmployee provisions the login account and the
	// user record in one transaction and returns the new uid.
	CreateEmployee(ctx context.Context, input CreateEmployeeInput) (string, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	FindUserInDepartment(ctx context.Context, department, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Attendance. MarkAttendance upserts today's record: first call of the
	// day checks in, second checks out, later calls are no-ops.
	MarkAttendance(ctx context.Context, uid, day string, at time.Time) (MarkAttendanceResult, error)
	ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error)

	// Leaves.
	CreateLeaveRequest(ctx context.Context, input LeaveRequestInput) (models.LeaveRequest, error)
	SetLeaveStatus(ctx context.Context, leaveID, status string) error
	ListLeaves(ctx context.Context) ([]models.LeaveRequest, error)
	ListLeavesByUser(ctx context.Context, uid string) ([]models.LeaveRequest, error)

	// Insight log. A limit <= 0 means no cap: it returns the whole log,
	// newest first.
	InsertInsight(ctx context.Context, insight models.Insight) error
	ListInsights(ctx context.Context, limit int) ([]models.Insight, error)

	// Document-store collections.
	ListPerformance(ctx context.Context) ([]models.PerformanceReview, error)
	ListSales(ctx context.Context) ([]models.SalesRecord, error)
	ListProjects(ctx context.Context) ([]models.Project, error)

	// AI configuration (persona override, default mode).
	GetAIConfig(ctx context.Context) (map[string]string, error)
}
