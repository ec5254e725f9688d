package brave

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchkit/internal/domain"
)

func TestNormalizeSectionOrder(t *testing.T) {
	raw := `{
		"web": {"results": [
			{"title": "w1", "url": "https://w1", "description": "d1"},
			{"title": "w2", "url": "https://w2", "description": "d2"}
		]},
		"news": {"results": [
			{"title": "n1", "url": "https://n1", "description": "nd1", "meta_url": {"hostname": "example.org"}}
		]},
		"faq": {"results": [
			{"question": "why", "answer": "because", "title": "f1", "url": "https://f1"}
		]}
	}`
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	results := Normalize(&payload)

	require.Len(t, results, 4)
	assert.Equal(t, []domain.Kind{domain.KindWeb, domain.KindWeb, domain.KindNews, domain.KindFAQ},
		[]domain.Kind{results[0].Kind, results[1].Kind, results[2].Kind, results[3].Kind})
	assert.Equal(t, "w1", results[0].Title)
	assert.Equal(t, "w2", results[1].Title)
	assert.Equal(t, "example.org", results[2].Source)
	assert.Equal(t, "because", results[3].Description)
	assert.Equal(t, "why", results[3].Snippet)
}

func TestNormalizeMissingFieldsDefaultEmpty(t *testing.T) {
	raw := `{"web": {"results": [{"url": "https://only-url"}]}}`
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	results := Normalize(&payload)

	require.Len(t, results, 1)
	assert.Equal(t, "https://only-url", results[0].URL)
	assert.Empty(t, results[0].Title)
	assert.Empty(t, results[0].Description)
	assert.Empty(t, results[0].Snippet)
	assert.Empty(t, results[0].Age)
}

func TestNormalizeAbsentSections(t *testing.T) {
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &payload))
	assert.Empty(t, Normalize(&payload))
}

func TestNormalizeNilPayload(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestNormalizeNewsOnly(t *testing.T) {
	raw := `{"news": {"results": [
		{"title": "n1", "url": "https://n1"},
		{"title": "n2", "url": "https://n2"}
	]}}`
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	results := Normalize(&payload)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, domain.KindNews, r.Kind)
	}
}
