package insight

import (
	"context"

	"github.com/shubhamgosaii/growthosai/internal/models"
	"github.com/shubhamgosaii/growthosai/internal/store"

	"golang.org/x/sync/errgroup"
)

// FetchAggregate reads the full company snapshot with one concurrent
// fan-out per collection. Each read targets a disjoint collection so order
// between them does not matter; the first failure cancels the rest and
// fails the whole fetch. Missing data is never an error — it comes back as
// empty slices.
func FetchAggregate(ctx context.Context, st store.Store) (models.Aggregate, error) {
	var agg models.Aggregate

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		agg.Users, err = st.ListUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		agg.Attendance, err = st.ListAttendance(ctx)
		return err
	})
	g.Go(func() (err error) {
		agg.Leaves, err = st.ListLeaves(ctx)
		return err
	})
	g.Go(func() (err error) {
		agg.Insights, err = st.ListInsights(ctx, 0)
		return err
	})
	g.Go(func() (err error) {
		agg.Performance, err = st.ListPerformance(ctx)
		return err
	})
	g.Go(func() (err error) {
		agg.Sales, err = st.ListSales(ctx)
		return err
	})
	g.Go(func() (err error) {
		agg.Projects, err = st.ListProjects(ctx)
		return err
	})
	g.Go(func() (err error) {
		agg.AIConfig, err = st.GetAIConfig(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Aggregate{}, err
	}

	if agg.Users == nil {
		agg.Users = []models.User{}
	}
	if agg.Attendance == nil {
		agg.Attendance = []models.AttendanceRecord{}
	}
	if agg.Leaves == nil {
		agg.Leaves = []models.LeaveRequest{}
	}
	if agg.Insights == nil {
		agg.Insights = []models.Insight{}
	}
	if agg.Performance == nil {
		agg.Performance = []models.PerformanceReview{}
	}
	if agg.Sales == nil {
		agg.Sales = []models.SalesRecord{}
	}
	if agg.Projects == nil {
		agg.Projects = []models.Project{}
	}
	if agg.AIConfig == nil {
		agg.AIConfig = map[string]string{}
	}
	return agg, nil
}
