package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	spec, err := Generate(Info{Title: "Form Check API", Version: "0.1.0"})
	require.NoError(t, err)

	assert.Equal(t, "Form Check API", spec.Info.Title)
	assert.Equal(t, "0.1.0", spec.Info.Version)

	analyze := spec.Paths.Value("/api/analyze-form")
	require.NotNil(t, analyze)
	require.NotNil(t, analyze.Post)
	assert.Nil(t, analyze.Get)
	assert.NotNil(t, analyze.Post.Responses.Value("200"))
	assert.NotNil(t, analyze.Post.Responses.Value("422"))
	assert.NotNil(t, analyze.Post.Responses.Value("500"))

	require.NotNil(t, spec.Paths.Value("/"))
	require.NotNil(t, spec.Paths.Value("/health"))
	assert.Nil(t, spec.Paths.Value("/docs"))
}

func TestGenerate_DescribesPayload(t *testing.T) {
	spec, err := Generate(Info{Title: "Form Check API", Version: "0.1.0"})
	require.NoError(t, err)

	data, err := json.Marshal(spec)
	require.NoError(t, err)

	doc := string(data)
	for _, field := range []string{"exerciseType", "frameCount", "keyPositions", "bottomPosition", "hipAngle", "riseRateRatio", "riskFlags", "timestamp"} {
		assert.Contains(t, doc, `"`+field+`"`)
	}
}
