package service

import (
	"alcyxob/form-check/internal/domain"
	"alcyxob/form-check/internal/llm"
	"alcyxob/form-check/internal/prompts"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// Raw model text quoted in parse errors is cut to this many characters.
const maxRawExcerpt = 200

// --- Service Interface ---
type AnalysisService interface {
	AnalyzeForm(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResponse, error)
}

// --- Service Implementation ---

// analysisService implements the AnalysisService interface.
type analysisService struct {
	completer  llm.Completer
	structured bool
	now        func() time.Time
}

// NewAnalysisService creates a new instance of analysisService. When
// structured is set the model is asked for, and must return, a JSON record.
func NewAnalysisService(completer llm.Completer, structured bool) AnalysisService {
	return &analysisService{
		completer:  completer,
		structured: structured,
		now:        time.Now,
	}
}

// AnalyzeForm formats req, makes one model call and builds the response.
// Every returned error carries a domain.ErrorKind.
func (s *analysisService) AnalyzeForm(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	if req == nil {
		return nil, domain.NewError(domain.KindValidation, domain.ErrEmptyRequest)
	}
	if s.completer == nil {
		return nil, domain.NewError(domain.KindConfiguration, domain.ErrMissingCredential)
	}

	prompt := llm.Prompt{
		System:      prompts.SystemPrompt(string(req.ExerciseType), s.structured),
		User:        prompts.FormatBiomechanics(req),
		CacheSystem: true,
	}

	start := time.Now()
	text, err := s.completer.Complete(ctx, prompt)
	log.Printf("INFO: Model call for %s finished in %s", req.ExerciseType, time.Since(start).Round(time.Millisecond))
	if err != nil {
		if domain.KindOf(err) == domain.KindUnknown {
			return nil, domain.NewError(domain.KindUnknown, err)
		}
		return nil, err
	}

	resp := &domain.AnalysisResponse{
		Timestamp:    s.now().UTC(),
		ExerciseType: req.ExerciseType,
	}
	if !s.structured {
		resp.Analysis = text
		return resp, nil
	}

	structured, err := ParseStructuredAnalysis(text)
	if err != nil {
		return nil, err
	}
	resp.StructuredAnalysis = structured
	return resp, nil
}

// ParseStructuredAnalysis decodes a JSON reply, tolerating surrounding code
// fences. All three lists must be present; safetyConcerns may be empty.
func ParseStructuredAnalysis(raw string) (*domain.StructuredAnalysis, error) {
	var parsed struct {
		KeyObservations *[]string `json:"keyObservations"`
		SafetyConcerns  *[]string `json:"safetyConcerns"`
		Recommendations *[]string `json:"recommendations"`
	}

	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		return nil, domain.NewError(domain.KindUpstreamFormat,
			fmt.Errorf("%w: %v (raw: %q)", domain.ErrMalformedAnalysis, err, rawExcerpt(raw)))
	}

	var missing []string
	if parsed.KeyObservations == nil {
		missing = append(missing, "keyObservations")
	}
	if parsed.SafetyConcerns == nil {
		missing = append(missing, "safetyConcerns")
	}
	if parsed.Recommendations == nil {
		missing = append(missing, "recommendations")
	}
	if len(missing) > 0 {
		return nil, domain.NewError(domain.KindUpstreamFormat,
			fmt.Errorf("%w: missing %s (raw: %q)", domain.ErrMalformedAnalysis, strings.Join(missing, ", "), rawExcerpt(raw)))
	}

	return &domain.StructuredAnalysis{
		KeyObservations: *parsed.KeyObservations,
		SafetyConcerns:  *parsed.SafetyConcerns,
		Recommendations: *parsed.Recommendations,
	}, nil
}

// stripCodeFences removes a leading ``` or ```json line and a trailing ```.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func rawExcerpt(s string) string {
	r := []rune(s)
	if len(r) <= maxRawExcerpt {
		return s
	}
	return string(r[:maxRawExcerpt]) + "..."
}
