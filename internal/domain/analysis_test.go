package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/form-check/internal/domain"
)

func TestSanitize_TruncatesLongRiskFlags(t *testing.T) {
	long := strings.Repeat("a", domain.MaxRiskFlagLength+50)
	req := domain.AnalysisRequest{RiskFlags: []string{"Neck hyperextension risk", long}}

	req.Sanitize()

	assert.Equal(t, "Neck hyperextension risk", req.RiskFlags[0])
	assert.Len(t, req.RiskFlags[1], domain.MaxRiskFlagLength)
}

func TestSanitize_CountsCharactersNotBytes(t *testing.T) {
	// 150 two-byte characters: longer than the cap in bytes, shorter in characters.
	flag := strings.Repeat("é", 150)
	req := domain.AnalysisRequest{RiskFlags: []string{flag, strings.Repeat("°", 250)}}

	req.Sanitize()

	assert.Equal(t, flag, req.RiskFlags[0])
	assert.Equal(t, domain.MaxRiskFlagLength, len([]rune(req.RiskFlags[1])))
}

func TestSanitize_NoFlags(t *testing.T) {
	req := domain.AnalysisRequest{}
	req.Sanitize()
	assert.Nil(t, req.RiskFlags)
}

func TestAnalysisResponse_TextRoundTrip(t *testing.T) {
	ts := time.Date(2025, 11, 20, 10, 30, 0, 0, time.UTC)
	in := domain.AnalysisResponse{
		Analysis:     "Your squat form shows good depth and knee tracking...",
		Timestamp:    ts,
		ExerciseType: domain.ExerciseSquat,
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "keyObservations")

	var out domain.AnalysisResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.Analysis, out.Analysis)
	assert.Equal(t, in.ExerciseType, out.ExerciseType)
	assert.True(t, ts.Equal(out.Timestamp))
	assert.Nil(t, out.StructuredAnalysis)
}

func TestAnalysisResponse_StructuredRoundTrip(t *testing.T) {
	in := domain.AnalysisResponse{
		StructuredAnalysis: &domain.StructuredAnalysis{
			KeyObservations: []string{"Good depth", "Stable ankles"},
			SafetyConcerns:  []string{},
			Recommendations: []string{"Brace before descent"},
		},
		Timestamp:    time.Now().UTC(),
		ExerciseType: domain.ExerciseDeadlift,
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"safetyConcerns":[]`)
	assert.NotContains(t, string(data), `"analysis"`)

	var out domain.AnalysisResponse
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotNil(t, out.StructuredAnalysis)
	assert.Equal(t, in.KeyObservations, out.KeyObservations)
	assert.Equal(t, in.SafetyConcerns, out.SafetyConcerns)
	assert.Equal(t, in.Recommendations, out.Recommendations)
	assert.Equal(t, domain.ExerciseDeadlift, out.ExerciseType)
}

func TestKindOf(t *testing.T) {
	cfgErr := domain.NewError(domain.KindConfiguration, domain.ErrMissingCredential)
	wrapped := fmt.Errorf("analyze: %w", cfgErr)

	assert.Equal(t, domain.KindConfiguration, domain.KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, domain.ErrMissingCredential))
	assert.Equal(t, domain.KindUnknown, domain.KindOf(errors.New("boom")))
	assert.Equal(t, domain.KindUnknown, domain.KindOf(nil))
	assert.Nil(t, domain.NewError(domain.KindValidation, nil))
	assert.Equal(t, "upstream_format", domain.KindUpstreamFormat.String())
}
