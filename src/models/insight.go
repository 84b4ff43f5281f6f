package models

// InsightType classifies an AI insight for presentation.
type InsightType string

const (
	InsightAlert   InsightType = "alert"
	InsightSuccess InsightType = "success"
	InsightInfo    InsightType = "info"
)

// AIInsight is a short generated observation about spending behavior.
// Insights are ephemeral and never persisted.
type AIInsight struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        InsightType `json:"type"`
}

// Valid reports whether the insight carries a known type and non-empty text.
// Responses from the generative service are dropped when this fails.
func (i AIInsight) Valid() bool {
	switch i.Type {
	case InsightAlert, InsightSuccess, InsightInfo:
	default:
		return false
	}
	return i.Title != "" && i.Description != ""
}
