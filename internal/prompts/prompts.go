// Package prompts builds the text sent to the language model: a static
// instruction template per exercise and a compact rendering of the
// biomechanics payload.
package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"alcyxob/form-check/internal/domain"
)

const SquatPrompt = `Analyze squat form as biomechanics expert. OPTIMAL: Hip 80-100°, Knee 70-110°, Torso 30-45°, Rise ratio 0.9-1.1. RISKS: Lean >45° or ratio >1.2 = spine injury; depth <100° hip = incomplete.

FORMAT:
1. Overall: Good/Needs Improvement/Poor
2. Issues: specific problems with data
3. Risks: HIGH/MED/LOW + structures
4. Fixes: actionable cues

Be direct.`

const (
	DeadliftPrompt   = `[Future implementation]`
	BenchPressPrompt = `[Future implementation]`
)

// DefaultPrompt is used for exercise types without a template.
const DefaultPrompt = SquatPrompt

// StructuredOutputInstruction is appended to the template when a JSON reply is required.
const StructuredOutputInstruction = `Respond with ONLY a JSON object (no markdown, no code fences, no extra text) matching this exact schema:
{
  "keyObservations": ["<observation>", ...],
  "safetyConcerns": ["<concern>", ...],
  "recommendations": ["<recommendation>", ...]
}
Use an empty array for safetyConcerns when there are none.`

// NoRiskFlags is rendered when the request carries no risk flags.
const NoRiskFlags = "None detected"

const notAvailable = "N/A"

var exercisePrompts = map[string]string{
	string(domain.ExerciseSquat):    SquatPrompt,
	string(domain.ExerciseDeadlift): DeadliftPrompt,
	string(domain.ExerciseBench):    BenchPressPrompt,
}

// ExercisePrompt returns the template for exerciseType. Lookup ignores case and
// surrounding whitespace; unknown types get DefaultPrompt.
func ExercisePrompt(exerciseType string) string {
	if p, ok := exercisePrompts[normalize(exerciseType)]; ok {
		return p
	}
	return DefaultPrompt
}

// SystemPrompt returns the exercise template, extended with the JSON schema
// instruction when structured is set.
func SystemPrompt(exerciseType string, structured bool) string {
	p := ExercisePrompt(exerciseType)
	if structured {
		p += "\n\n" + StructuredOutputInstruction
	}
	return p
}

// FormatBiomechanics renders req as the user message. It never fails: a nil
// request or missing values render as placeholders.
func FormatBiomechanics(req *domain.AnalysisRequest) string {
	if req == nil {
		req = &domain.AnalysisRequest{}
	}

	exercise := normalize(string(req.ExerciseType))
	if exercise == "" {
		exercise = string(domain.ExerciseSquat)
	}

	frames := 0
	if req.FrameCount != nil {
		frames = *req.FrameCount
	}

	var bottom domain.FrameMetrics
	if req.KeyPositions != nil && req.KeyPositions.BottomPosition != nil {
		bottom = req.KeyPositions.BottomPosition.FrameMetrics
	}

	temporal := req.TemporalAnalysis
	if temporal == nil {
		temporal = &domain.TemporalAnalysis{}
	}

	flags := NoRiskFlags
	if len(req.RiskFlags) > 0 {
		flags = strings.Join(req.RiskFlags, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s DATA (%d frames):\n\n", strings.ToUpper(exercise), frames)
	fmt.Fprintf(&b, "BOTTOM POSITION: Hip %s° | Knee %s° | Torso %s° | Neck %s°\n\n",
		num(bottom.HipAngle), num(bottom.KneeAngle), num(bottom.TorsoLean), num(bottom.NeckAngle))
	fmt.Fprintf(&b, "MOVEMENT PATTERNS: Rise ratio %s | Max lean %s° | Max knee travel %s%% | Min hip angle %s°\n\n",
		num(temporal.RiseRateRatio), num(temporal.MaxTorsoLean), num(temporal.MaxKneeForwardTravel), num(temporal.MinHipAngle))
	fmt.Fprintf(&b, "RISK FLAGS: %s", flags)
	return b.String()
}

func normalize(exerciseType string) string {
	return strings.ToLower(strings.TrimSpace(exerciseType))
}

// num renders v with the shortest precision that round-trips, keeping ".0" on
// integral values, or N/A when v is missing. Magnitudes below 1e-4 or from 1e16
// up switch to exponent form (1e-05, 1.5e+16).
func num(v *float64) string {
	if v == nil {
		return notAvailable
	}
	if exp := decimalExponent(*v); exp < -4 || exp >= 16 {
		return strconv.FormatFloat(*v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// decimalExponent returns the power of ten of v's leading digit; zero for zero.
func decimalExponent(v float64) int {
	if v == 0 {
		return 0
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if err != nil {
		return 0
	}
	return exp
}
