package model

// DiagnosticLabel classifies the most recent RSI reading.
type DiagnosticLabel string

const (
	DiagnosisUndefined  DiagnosticLabel = "UNDEFINED"
	DiagnosisLikelyUp   DiagnosticLabel = "LIKELY_UP"
	DiagnosisLikelyDown DiagnosticLabel = "LIKELY_DOWN"
	DiagnosisNeutral    DiagnosticLabel = "NEUTRAL"
)

// Text returns the human-readable form of the label.
func (d DiagnosticLabel) Text() string {
	switch d {
	case DiagnosisLikelyUp:
		return "📈 Likely up (RSI < 30)"
	case DiagnosisLikelyDown:
		return "📉 Likely down (RSI > 70)"
	case DiagnosisNeutral:
		return "🔍 Neutral"
	default:
		return "-"
	}
}

// Diagnosis is the output of the diagnostic step.
type Diagnosis struct {
	Label DiagnosticLabel
	RSI   float64 // may be NaN or ±Inf
}
