package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrompts(t *testing.T) {
	p, err := DefaultPrompts()
	require.NoError(t, err)

	assert.Equal(t, "Responde ÚNICAMENTE en español, de forma clara y concisa. ", p.Chat.Prefix)
	assert.InDelta(t, 0.7, p.Sampling.Temperature, 0.001)
	assert.InDelta(t, 0.9, p.Sampling.TopP, 0.001)
	assert.Equal(t, 200, p.Sampling.MaxTokens)
	assert.InDelta(t, 0.2, p.Sampling.FrequencyPenalty, 0.001)
	assert.NotEmpty(t, p.Option.System)
	assert.NotEmpty(t, p.Option.Fallback)
	assert.Len(t, p.Option.Topics, 5)
}

func TestMatchTopic(t *testing.T) {
	p, err := DefaultPrompts()
	require.NoError(t, err)

	tests := []struct {
		message string
		want    string
		found   bool
	}{
		{"Cual es tu mejor prediccion en este momento?", "prediction", true},
		{"PREDICCION para mañana", "prediction", true},
		{"Que me recomiendas segun el comportamiendo de los ultimos 4 meses?", "four_months", true},
		{"los ultimos dos meses", "four_months", true},
		{"solo los ultimos dias", "", false},
		{"Que me recomiendas en un largo plazo?", "long_term", true},
		{"Que me recomiendas en un corto plazo?", "short_term", true},
		{"Hablame de las cotizaciones en este momento", "prices", true},
		{"y los precios?", "prices", true},
		{"hola", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			topic, found := p.MatchTopic(tt.message)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, topic.Name)
		})
	}
}

func TestLoadPrompts_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := `
chat:
  prefix: "Answer in English. "
option:
  fallback: "?"
  topics:
    - name: btc
      match: [["bitcoin"]]
      instruction: "Talk about bitcoin."
sampling:
  max_tokens: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := LoadPrompts(path)
	require.NoError(t, err)

	assert.Equal(t, "Answer in English. ", p.Chat.Prefix)
	assert.Equal(t, 50, p.Sampling.MaxTokens)
	assert.InDelta(t, 0.7, p.Sampling.Temperature, 0.001, "unset values fall back")

	topic, ok := p.MatchTopic("What about Bitcoin?")
	require.True(t, ok)
	assert.Equal(t, "btc", topic.Name)
}

func TestLoadPrompts_Errors(t *testing.T) {
	_, err := LoadPrompts(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chat: [unclosed"), 0o600))
	_, err = LoadPrompts(path)
	assert.Error(t, err)
}

func TestLoadPrompts_EmptyPathUsesDefaults(t *testing.T) {
	p, err := LoadPrompts("")
	require.NoError(t, err)
	assert.Len(t, p.Option.Topics, 5)
}

func TestParsePrompts_ExplicitZeroTemperature(t *testing.T) {
	p, err := ParsePrompts([]byte("sampling:\n  temperature: 0\n"))
	require.NoError(t, err)

	assert.Zero(t, p.Sampling.Temperature)
	assert.InDelta(t, 0.9, p.Sampling.TopP, 0.001)
	assert.Equal(t, 200, p.Sampling.MaxTokens)
}

func TestParsePrompts_SamplingOutOfRange(t *testing.T) {
	for _, doc := range []string{
		"sampling:\n  temperature: -1\n",
		"sampling:\n  temperature: 3\n",
		"sampling:\n  top_p: 0\n",
		"sampling:\n  max_tokens: 0\n",
		"sampling:\n  frequency_penalty: 5\n",
	} {
		_, err := ParsePrompts([]byte(doc))
		assert.Error(t, err, doc)
	}
}
