package insight

import "github.com/shubhamgosaii/growthosai/internal/models"

// ComputeMetrics derives the summary statistics for one aggregate. It is a
// pure function: the snapshot is recomputed fresh on every query and never
// persisted on its own.
func ComputeMetrics(agg models.Aggregate) models.MetricsSnapshot {
	snapshot := models.MetricsSnapshot{
		DepartmentWise:  make(map[string]int),
		AttendanceCount: len(agg.Attendance),
		LeaveRequests:   len(agg.Leaves),
		ProjectCount:    len(agg.Projects),
	}

	for _, user := range agg.Users {
		if user.Role != models.RoleEmployee {
			continue
		}
		snapshot.TotalEmployees++
		snapshot.DepartmentWise[user.Department]++
	}

	for _, sale := range agg.Sales {
		snapshot.TotalSales += sale.Amount
	}

	return snapshot
}
