package strategy

import (
	"math"

	"AssetAnalyzer/internal/model"
)

const (
	oversoldRSI   = 30.0
	overboughtRSI = 70.0
)

// DiagnoseRSI classifies a single RSI reading. Both thresholds are strict,
// so exactly 30 or 70 is neutral.
func DiagnoseRSI(rsi float64) model.DiagnosticLabel {
	switch {
	case math.IsNaN(rsi):
		return model.DiagnosisUndefined
	case rsi < oversoldRSI:
		return model.DiagnosisLikelyUp
	case rsi > overboughtRSI:
		return model.DiagnosisLikelyDown
	default:
		return model.DiagnosisNeutral
	}
}

// Evaluate diagnoses the most recent point of frame.
func Evaluate(frame *model.IndicatorFrame) model.Diagnosis {
	rsi := frame.LatestRSI()
	return model.Diagnosis{Label: DiagnoseRSI(rsi), RSI: rsi}
}
