package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shubhamgosaii/growthosai/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestMarkAttendanceLifecycle(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	uid := uuid.NewString()
	day := "2026-08-28"
	checkIn := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 8, 28, 17, 30, 0, 0, time.UTC)
	late := time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC)

	first, err := st.MarkAttendance(ctx, uid, day, checkIn)
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if first.CheckedOut {
		t.Fatal("first mark should be a check-in")
	}
	if first.Record.CheckOut != nil {
		t.Fatalf("first mark should leave check_out empty, got %v", first.Record.CheckOut)
	}
	if first.Record.Status != models.AttendancePresent {
		t.Fatalf("expected status PRESENT, got %s", first.Record.Status)
	}
	if !first.Record.CheckIn.Equal(checkIn) {
		t.Fatalf("expected check-in %v, got %v", checkIn, first.Record.CheckIn)
	}

	second, err := st.MarkAttendance(ctx, uid, day, checkOut)
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if !second.CheckedOut {
		t.Fatal("second mark should check out")
	}
	if second.Record.CheckOut == nil || !second.Record.CheckOut.Equal(checkOut) {
		t.Fatalf("expected check-out %v, got %v", checkOut, second.Record.CheckOut)
	}

	third, err := st.MarkAttendance(ctx, uid, day, late)
	if err != nil {
		t.Fatalf("third mark: %v", err)
	}
	if !third.CheckedOut {
		t.Fatal("third mark should still report checked out")
	}
	if third.Record.CheckOut == nil || !third.Record.CheckOut.Equal(checkOut) {
		t.Fatalf("third mark must not move check_out, got %v", third.Record.CheckOut)
	}

	// The stored row is immutable after check-out.
	var storedIn time.Time
	var storedOut *time.Time
	var count int
	row := pool.QueryRow(ctx, `
		SELECT check_in, check_out, (SELECT COUNT(*) FROM attendance WHERE uid = $1)
		FROM attendance WHERE uid = $1 AND day = $2
	`, uid, day)
	if err := row.Scan(&storedIn, &storedOut, &count); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single attendance row, got %d", count)
	}
	if !storedIn.Equal(checkIn) {
		t.Fatalf("stored check_in moved to %v", storedIn)
	}
	if storedOut == nil || !storedOut.Equal(checkOut) {
		t.Fatalf("stored check_out moved to %v", storedOut)
	}
}

func TestListInsightsLimit(t *testing.T) {
	ctx := context.Background()
	st, _, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := st.InsertInsight(ctx, models.Insight{
			InsightID: uuid.NewString(),
			Prompt:    "q",
			Intent:    "GENERAL",
			Reply:     "r",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("insert insight %d: %v", i, err)
		}
	}

	all, err := st.ListInsights(ctx, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("limit 0 should return the whole log, got %d rows", len(all))
	}

	page, err := st.ListInsights(ctx, 2)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page))
	}
	if !page[0].CreatedAt.After(page[1].CreatedAt) {
		t.Fatalf("expected newest first, got %v then %v", page[0].CreatedAt, page[1].CreatedAt)
	}
}

func setupTestStore(t *testing.T, ctx context.Context) (*Store, *pgxpool.Pool, func()) {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_DB_DSN or DB_DSN is required for integration tests")
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := createTestSchema(ctx, dsn, schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	pool, err := newPoolWithSchema(ctx, dsn, schema)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}

	st := NewStore(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		pool.Close()
		t.Fatalf("ensure schema: %v", err)
	}

	cleanup := func() {
		pool.Close()
		_ = dropTestSchema(context.Background(), dsn, schema)
	}
	return st, pool, cleanup
}

func createTestSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "CREATE SCHEMA "+schema)
	return err
}

func dropTestSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
	return err
}

func newPoolWithSchema(ctx context.Context, dsn, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	return pgxpool.NewWithConfig(ctx, cfg)
}
