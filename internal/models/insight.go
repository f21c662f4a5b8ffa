package models

// InsightTopic tags what a coaching insight is about.
type InsightTopic string

const (
	TopicDeload       InsightTopic = "deload"
	TopicPlateau      InsightTopic = "plateau"
	TopicSubstitution InsightTopic = "substitution"
	TopicNutrition    InsightTopic = "nutrition"
	TopicSleep        InsightTopic = "sleep"
	TopicReadiness    InsightTopic = "readiness"
)

// InsightSeverity grades how urgent an insight is.
type InsightSeverity string

const (
	SeverityInfo  InsightSeverity = "info"
	SeverityWarn  InsightSeverity = "warn"
	SeverityAlert InsightSeverity = "alert"
)

// CoachingInsight is one piece of derived coaching feedback. Lower Priority
// values sort first.
type CoachingInsight struct {
	Topic        InsightTopic    `json:"topic"`
	Severity     InsightSeverity `json:"severity"`
	Priority     int             `json:"priority"`
	Message      string          `json:"message"`
	SubstituteID string          `json:"substitute_id,omitempty"`
}
