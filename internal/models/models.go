package models

import "time"

// Role and status values mirror what the dashboard expects verbatim.
const (
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"

	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"

	AttendancePresent = "PRESENT"

	LeavePending  = "PENDING"
	LeaveApproved = "APPROVED"
	LeaveRejected = "REJECTED"
)

type User struct {
	UID        string    `json:"uid"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AttendanceRecord is keyed by (UID, Day) where Day is a calendar date in
// YYYY-MM-DD form. At most one record exists per user per day.
type AttendanceRecord struct {
	UID      string     `json:"uid"`
	Day      string     `json:"date"`
	Status   string     `json:"status"`
	CheckIn  time.Time  `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut,omitempty"`
}

type LeaveRequest struct {
	LeaveID   string    `json:"leaveId"`
	UID       string    `json:"uid"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Insight is one append-only entry of the AI audit log: the question asked,
// the topic it was routed to, the reply, and the metrics snapshot the reply
// was grounded on.
type Insight struct {
	InsightID string          `json:"insightId"`
	Prompt    string          `json:"prompt"`
	Intent    string          `json:"intent"`
	Reply     string          `json:"reply"`
	Metrics   MetricsSnapshot `json:"metrics"`
	CreatedAt time.Time       `json:"createdAt"`
}

type PerformanceReview struct {
	ReviewID string `json:"reviewId"`
	UID      string `json:"uid"`
	Period   string `json:"period"`
	Score    int    `json:"score"`
	Summary  string `json:"summary"`
}

type SalesRecord struct {
	SaleID     string    `json:"saleId"`
	Department string    `json:"department"`
	Amount     float64   `json:"amount"`
	RecordedAt time.Time `json:"recordedAt"`
}

type Project struct {
	ProjectID  string `json:"projectId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

// MetricsSnapshot is derived fresh on every query; it is never read back from
// storage except as part of an Insight.
type MetricsSnapshot struct {
	TotalEmployees  int            `json:"totalEmployees"`
	DepartmentWise  map[string]int `json:"departmentWise"`
	AttendanceCount int            `json:"attendanceCount"`
	LeaveRequests   int            `json:"leaveRequests"`
	TotalSales      float64        `json:"totalSales"`
	ProjectCount    int            `json:"projectCount"`
}

// Aggregate is the combined snapshot of all company records fetched for one
// AI query. Slices are always non-nil; missing data comes back empty.
type Aggregate struct {
	Users       []User              `json:"users"`
	Attendance  []AttendanceRecord  `json:"attendance"`
	Leaves      []LeaveRequest      `json:"leaves"`
	Insights    []Insight           `json:"insights"`
	Performance []PerformanceReview `json:"performance"`
	Sales       []SalesRecord       `json:"sales"`
	Projects    []Project           `json:"projects"`
	AIConfig    map[string]string   `json:"aiConfig"`
}
