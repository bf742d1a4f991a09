package insight

import "github.com/shubhamgosaii/growthosai/internal/models"

// SelectRelevant returns the subset of the aggregate needed to answer a
// question with the given intent. Bounding the selection keeps the composed
// prompt small and keeps irrelevant records out of the completion request.
func SelectRelevant(intent Intent, agg models.Aggregate) map[string]interface{} {
	switch intent {
	case IntentEmployee:
		return map[string]interface{}{"users": agg.Users}
	case IntentAttendance:
		return map[string]interface{}{"attendance": agg.Attendance, "users": agg.Users}
	case IntentLeave:
		return map[string]interface{}{"leaves": agg.Leaves, "users": agg.Users}
	case IntentPerformance:
		return map[string]interface{}{"performance": agg.Performance, "users": agg.Users}
	case IntentSales:
		return map[string]interface{}{"sales": agg.Sales}
	case IntentProject:
		return map[string]interface{}{"projects": agg.Projects}
	default:
		// RISK, GROWTH and GENERAL questions can touch anything, including
		// earlier insights and the configured persona.
		return map[string]interface{}{
			"users":       agg.Users,
			"attendance":  agg.Attendance,
			"leaves":      agg.Leaves,
			"insights":    agg.Insights,
			"performance": agg.Performance,
			"sales":       agg.Sales,
			"projects":    agg.Projects,
			"aiConfig":    agg.AIConfig,
		}
	}
}
