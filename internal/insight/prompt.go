package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shubhamgosaii/growthosai/internal/models"
)

// Mode controls how much company data the assistant is allowed to lean on.
type Mode string

const (
	// ModeBoth prefers company data and falls back to general knowledge.
	ModeBoth Mode = "BOTH"
	// ModeJarvis answers strictly from company data.
	ModeJarvis Mode = "JARVIS"
	// ModeGemi answers from general knowledge only; company data is omitted
	// from the prompt entirely.
	ModeGemi Mode = "GEMI"
)

// ParseMode normalizes a client-supplied mode string, defaulting to BOTH.
func ParseMode(raw string) Mode {
	switch Mode(strings.ToUpper(strings.TrimSpace(raw))) {
	case ModeJarvis:
		return ModeJarvis
	case ModeGemi:
		return ModeGemi
	default:
		return ModeBoth
	}
}

const personaPreamble = `You are GrowthOS, the company assistant for an HR dashboard.
Rules:
- Answer in plain language only. Never use code blocks or markdown tables.
- Answer only what is asked; do not volunteer unrelated information.
- When company data is provided, ground every figure in it.`

const jarvisRules = `- Use ONLY the company data below. If the answer is not in the data, say so plainly.`

const bothRules = `- Prefer the company data below; fall back to general knowledge when the data does not cover the question.`

const gemiRules = `- Answer from general knowledge. No company data is provided for this question.`

// ComposePrompt builds the full instruction block sent to the completion
// API: persona and rules, serialized metrics, serialized selected data, and
// the literal question. A non-empty persona overrides the built-in preamble.
func ComposePrompt(mode Mode, persona string, metrics models.MetricsSnapshot, data map[string]interface{}, question string) string {
	var b strings.Builder

	if persona == "" {
		persona = personaPreamble
	}
	b.WriteString(persona)
	b.WriteString("\n")
	switch mode {
	case ModeJarvis:
		b.WriteString(jarvisRules)
	case ModeGemi:
		b.WriteString(gemiRules)
	default:
		b.WriteString(bothRules)
	}
	b.WriteString("\n")

	if mode != ModeGemi {
		b.WriteString("\nCompany metrics:\n")
		b.WriteString(marshalSection(metrics))
		b.WriteString("\n\nCompany data:\n")
		b.WriteString(marshalSection(data))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	return b.String()
}

func marshalSection(value interface{}) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
