// internal/domain/analysis.go
package domain

import (
	"time"
)

// Limits applied to an incoming analysis request.
const (
	MaxFrameCount     = 100
	MaxRiskFlags      = 20
	MaxRiskFlagLength = 200
	MaxFramesData     = 100
)

// ExerciseType identifies the lift being analysed.
type ExerciseType string

const (
	ExerciseSquat    ExerciseType = "squat"
	ExerciseDeadlift ExerciseType = "deadlift"
	ExerciseBench    ExerciseType = "bench"
)

// FrameMetrics are the biomechanics measurements for a single frame.
// Numeric fields are pointers so a missing value is distinguishable from zero.
type FrameMetrics struct {
	HipAngle          *float64 `json:"hipAngle" binding:"required,gte=0,lte=180"`          // degrees
	KneeAngle         *float64 `json:"kneeAngle" binding:"required,gte=0,lte=180"`         // degrees
	AnkleAngle        *float64 `json:"ankleAngle" binding:"required,gte=0,lte=180"`        // degrees
	TorsoLean         *float64 `json:"torsoLean" binding:"required,gte=-90,lte=90"`        // degrees from vertical
	NeckAngle         *float64 `json:"neckAngle" binding:"required,gte=0,lte=180"`         // degrees
	HipHeight         *float64 `json:"hipHeight" binding:"required,gte=0,lte=1"`           // normalized
	ShoulderHeight    *float64 `json:"shoulderHeight" binding:"required,gte=0,lte=1"`      // normalized
	KneeForwardTravel *float64 `json:"kneeForwardTravel" binding:"required,gte=-100,lte=100"` // percent
}

// KeyPosition is a FrameMetrics record tagged with its frame index.
type KeyPosition struct {
	Frame *int `json:"frame" binding:"required,gte=0"`
	FrameMetrics
}

// KeyPositions are the three positions that define a repetition.
type KeyPositions struct {
	Setup          *KeyPosition `json:"setup" binding:"required"`
	BottomPosition *KeyPosition `json:"bottomPosition" binding:"required"`
	Completion     *KeyPosition `json:"completion" binding:"required"`
}

// TemporalAnalysis summarises the whole movement.
type TemporalAnalysis struct {
	HipRiseRate          *float64 `json:"hipRiseRate" binding:"required,gte=-1,lte=1"`
	ShoulderRiseRate     *float64 `json:"shoulderRiseRate" binding:"required,gte=-1,lte=1"`
	RiseRateRatio        *float64 `json:"riseRateRatio" binding:"required,gte=-100,lte=100"` // negative when the rates disagree in sign
	MaxTorsoLean         *float64 `json:"maxTorsoLean" binding:"required,gte=-90,lte=90"`
	MaxKneeForwardTravel *float64 `json:"maxKneeForwardTravel" binding:"required,gte=-100,lte=100"`
	NeckExtensionMax     *float64 `json:"neckExtensionMax" binding:"required,gte=0,lte=180"`
	MinHipAngle          *float64 `json:"minHipAngle" binding:"required,gte=0,lte=180"`
}

// AnalysisRequest is the payload accepted by the form analysis endpoint.
type AnalysisRequest struct {
	ExerciseType     ExerciseType      `json:"exerciseType" binding:"required,oneof=squat deadlift bench"`
	FrameCount       *int              `json:"frameCount" binding:"required,gte=1,lte=100"`
	Duration         *string           `json:"duration" binding:"required"` // free text, may be empty
	KeyPositions     *KeyPositions     `json:"keyPositions" binding:"required"`
	TemporalAnalysis *TemporalAnalysis `json:"temporalAnalysis" binding:"required"`
	RiskFlags        []string          `json:"riskFlags" binding:"max=20"`
	// Passed through by the client; not used by the analysis.
	AllFramesData []FrameMetrics `json:"allFramesData,omitempty" binding:"omitempty,max=100,dive"`
}

// Sanitize truncates risk flags longer than MaxRiskFlagLength characters.
// Over-long flags are shortened, never rejected.
func (r *AnalysisRequest) Sanitize() {
	for i, flag := range r.RiskFlags {
		r.RiskFlags[i] = truncateRunes(flag, MaxRiskFlagLength)
	}
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// StructuredAnalysis is the model's assessment when JSON output is requested.
type StructuredAnalysis struct {
	KeyObservations []string `json:"keyObservations"`
	SafetyConcerns  []string `json:"safetyConcerns"`
	Recommendations []string `json:"recommendations"`
}

// AnalysisResponse is returned to the caller. Exactly one of Analysis or
// StructuredAnalysis is populated, depending on the configured output format.
type AnalysisResponse struct {
	Analysis string `json:"analysis,omitempty"`
	*StructuredAnalysis
	Timestamp    time.Time    `json:"timestamp"`
	ExerciseType ExerciseType `json:"exerciseType"`
}
