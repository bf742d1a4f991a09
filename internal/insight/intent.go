package insight

import "strings"

// Intent is the coarse topic label assigned to a free-text question.
type Intent string

const (
	IntentAttendance  Intent = "ATTENDANCE"
	IntentLeave       Intent = "LEAVE"
	IntentEmployee    Intent = "EMPLOYEE"
	IntentPerformance Intent = "PERFORMANCE"
	IntentSales       Intent = "SALES"
	IntentProject     Intent = "PROJECT"
	IntentRisk        Intent = "RISK"
	IntentGrowth      Intent = "GROWTH"
	IntentGeneral     Intent = "GENERAL"
)

// intentRules is checked in order; the first rule with a matching keyword
// wins and later rules are not consulted.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentAttendance, []string{"attendance"}},
	{IntentLeave, []string{"leave"}},
	{IntentEmployee, []string{"employee", "staff"}},
	{IntentPerformance, []string{"performance"}},
	{IntentSales, []string{"sales", "revenue"}},
	{IntentProject, []string{"project"}},
	{IntentRisk, []string{"risk"}},
	{IntentGrowth, []string{"growth"}},
}

// ClassifyIntent maps a prompt to a topic label by case-insensitive
// substring containment. An empty or unmatched prompt yields GENERAL.
func ClassifyIntent(prompt string) Intent {
	lowered := strings.ToLower(prompt)
	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}
