package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shubhamgosaii/growthosai/internal/models"
	"github.com/shubhamgosaii/growthosai/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateEmployee(ctx context.Context, input store.CreateEmployeeInput) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var taken bool
	row := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(email) = lower($1))
	`, input.Email)
	if err := row.Scan(&taken); err != nil {
		return "", err
	}
	if taken {
		return "", store.ErrEmailTaken
	}

	uid := uuid.NewString()
	if _, err := tx.Exec(ctx, `
		INSERT INTO accounts (uid, email, password_hash)
		VALUES ($1, $2, $3)
	`, uid, input.Email, string(hash)); err != nil {
		return "", err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO users (uid, full_name, email, department, role, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uid, input.FullName, input.Email, input.Department, input.Role, models.StatusActive, input.CreatedBy); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return uid, nil
}

func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	var passwordHash string
	row := s.pool.QueryRow(ctx, `
		SELECT u.uid, u.full_name, u.email, u.department, u.role, u.status, u.created_by, u.created_at, a.password_hash
		FROM users u
		JOIN accounts a ON a.uid = u.uid
		WHERE lower(u.email) = lower($1)
	`, email)
	if err := row.Scan(&user.UID, &user.FullName, &user.Email, &user.Department, &user.Role, &user.Status, &user.CreatedBy, &user.CreatedAt, &passwordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, store.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return models.User{}, store.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Store) FindUserInDepartment(ctx context.Context, department, email string) (models.User, error) {
	var user models.User
	row := s.pool.QueryRow(ctx, `
		SELECT uid, full_name, email, department, role, status, created_by, created_at
		FROM users
		WHERE department = $1 AND lower(email) = lower($2)
	`, department, email)
	if err := row.Scan(&user.UID, &user.FullName, &user.Email, &user.Department, &user.Role, &user.Status, &user.CreatedBy, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, store.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT uid, full_name, email, department, role, status, created_by, created_at
		FROM users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UID, &u.FullName, &u.Email, &u.Department, &u.Role, &u.Status, &u.CreatedBy, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) MarkAttendance(ctx context.Context, uid, day string, at time.Time) (store.MarkAttendanceResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return store.MarkAttendanceResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var record models.AttendanceRecord
	row := tx.QueryRow(ctx, `
		SELECT uid, day, status, check_in, check_out
		FROM attendance
		WHERE uid = $1 AND day = $2
		FOR UPDATE
	`, uid, day)
	err = row.Scan(&record.UID, &record.Day, &record.Status, &record.CheckIn, &record.CheckOut)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		record = models.AttendanceRecord{UID: uid, Day: day, Status: models.AttendancePresent, CheckIn: at}
		if _, err := tx.Exec(ctx, `
			INSERT INTO attendance (uid, day, status, check_in)
			VALUES ($1, $2, $3, $4)
		`, uid, day, record.Status, record.CheckIn); err != nil {
			return store.MarkAttendanceResult{}, err
		}
		if err := tx.Commit(ctx); err != nil {
			return store.MarkAttendanceResult{}, err
		}
		return store.MarkAttendanceResult{Record: record}, nil
	case err != nil:
		return store.MarkAttendanceResult{}, err
	}

	if record.CheckOut == nil {
		if _, err := tx.Exec(ctx, `
			UPDATE attendance SET check_out = $1 WHERE uid = $2 AND day = $3
		`, at, uid, day); err != nil {
			return store.MarkAttendanceResult{}, err
		}
		record.CheckOut = &at
		if err := tx.Commit(ctx); err != nil {
			return store.MarkAttendanceResult{}, err
		}
		return store.MarkAttendanceResult{Record: record, CheckedOut: true}, nil
	}

	// Already checked in and out today; the record is immutable from here on.
	if err := tx.Commit(ctx); err != nil {
		return store.MarkAttendanceResult{}, err
	}
	return store.MarkAttendanceResult{Record: record, CheckedOut: true}, nil
}

func (s *Store) ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT uid, day, status, check_in, check_out
		FROM attendance
		ORDER BY day ASC, check_in ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		var r models.AttendanceRecord
		if err := rows.Scan(&r.UID, &r.Day, &r.Status, &r.CheckIn, &r.CheckOut); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) CreateLeaveRequest(ctx context.Context, input store.LeaveRequestInput) (models.LeaveRequest, error) {
	leave := models.LeaveRequest{
		LeaveID: uuid.NewString(),
		UID:     input.UID,
		From:    input.From,
		To:      input.To,
		Reason:  input.Reason,
		Status:  models.LeavePending,
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO leaves (leave_id, uid, from_date, to_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, leave.LeaveID, leave.UID, leave.From, leave.To, leave.Reason, leave.Status)
	if err := row.Scan(&leave.CreatedAt); err != nil {
		return models.LeaveRequest{}, err
	}
	return leave, nil
}

func (s *Store) SetLeaveStatus(ctx context.Context, leaveID, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE leaves SET status = $1 WHERE leave_id = $2
	`, status, leaveID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrLeaveNotFound
	}
	return nil
}

func (s *Store) ListLeaves(ctx context.Context) ([]models.LeaveRequest, error) {
	return s.listLeaves(ctx, `
		SELECT leave_id, uid, from_date, to_date, reason, status, created_at
		FROM leaves
		ORDER BY created_at ASC
	`)
}

func (s *Store) ListLeavesByUser(ctx context.Context, uid string) ([]models.LeaveRequest, error) {
	return s.listLeaves(ctx, `
		SELECT leave_id, uid, from_date, to_date, reason, status, created_at
		FROM leaves
		WHERE uid = $1
		ORDER BY created_at ASC
	`, uid)
}

func (s *Store) listLeaves(ctx context.Context, query string, args ...interface{}) ([]models.LeaveRequest, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []models.LeaveRequest
	for rows.Next() {
		var l models.LeaveRequest
		if err := rows.Scan(&l.LeaveID, &l.UID, &l.From, &l.To, &l.Reason, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leaves, nil
}

func (s *Store) InsertInsight(ctx context.Context, insight models.Insight) error {
	metrics, err := json.Marshal(insight.Metrics)
	if err != nil {
		return err
	}
	if insight.InsightID == "" {
		insight.InsightID = uuid.NewString()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO insights (insight_id, prompt, intent, reply, metrics, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, insight.InsightID, insight.Prompt, insight.Intent, insight.Reply, metrics, insight.CreatedAt)
	return err
}

func (s *Store) ListInsights(ctx context.Context, limit int) ([]models.Insight, error) {
	query := `
		SELECT insight_id, prompt, intent, reply, metrics, created_at
		FROM insights
		ORDER BY created_at DESC
	`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []models.Insight
	for rows.Next() {
		var i models.Insight
		var metrics []byte
		if err := rows.Scan(&i.InsightID, &i.Prompt, &i.Intent, &i.Reply, &metrics, &i.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(metrics, &i.Metrics); err != nil {
			return nil, err
		}
		insights = append(insights, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return insights, nil
}

func (s *Store) ListPerformance(ctx context.Context) ([]models.PerformanceReview, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT review_id, uid, period, score, summary
		FROM performance_reviews
		ORDER BY period ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.PerformanceReview
	for rows.Next() {
		var r models.PerformanceReview
		if err := rows.Scan(&r.ReviewID, &r.UID, &r.Period, &r.Score, &r.Summary); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *Store) ListSales(ctx context.Context) ([]models.SalesRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sale_id, department, COALESCE(amount, 0), recorded_at
		FROM sales
		ORDER BY recorded_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []models.SalesRecord
	for rows.Next() {
		var record models.SalesRecord
		if err := rows.Scan(&record.SaleID, &record.Department, &record.Amount, &record.RecordedAt); err != nil {
			return nil, err
		}
		sales = append(sales, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT project_id, name, department, status
		FROM projects
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ProjectID, &p.Name, &p.Department, &p.Status); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Store) GetAIConfig(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM ai_config`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return config, nil
}
