package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func TestExtractObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		keys       []string
		wantFit    string
		wantReason string
	}{
		{
			name:       "bare object",
			text:       `{"icp_fit_strength":"High","reason":"agency building voice bots"}`,
			keys:       []string{"icp_fit_strength", "reason"},
			wantFit:    "High",
			wantReason: "agency building voice bots",
		},
		{
			name:       "prose around object",
			text:       "Sure! Here is my assessment:\n{\"icp_fit_strength\": \"Medium\", \"reason\": \"unclear budget\"}\nLet me know if you need more.",
			keys:       []string{"icp_fit_strength"},
			wantFit:    "Medium",
			wantReason: "unclear budget",
		},
		{
			name:    "fenced block",
			text:    "```json\n{\"icp_fit_strength\": \"Low\", \"reason\": \"HR\"}\n```",
			keys:    []string{"icp_fit_strength"},
			wantFit: "Low",
		},
		{
			name:    "skips unrelated object first",
			text:    `meta {"note": "x"} then {"icp_fit_strength":"High","reason":"r"}`,
			keys:    []string{"icp_fit_strength"},
			wantFit: "High",
		},
		{
			name: "responses envelope with json in string",
			text: `{"output":[{"type":"reasoning","summary":[]},{"type":"message","content":[{"type":"output_text","text":"{\"icp_fit_strength\":\"High\",\"reason\":\"fits\"}"}]}]}`,
			keys: []string{"icp_fit_strength"},

			wantFit:    "High",
			wantReason: "fits",
		},
		{
			name:    "nested braces inside strings",
			text:    `Result: {"icp_fit_strength":"Low","reason":"uses {curly} words"} done`,
			keys:    []string{"icp_fit_strength"},
			wantFit: "Low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			obj, err := ExtractObject(tt.text, tt.keys...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFit, String(obj, "icp_fit_strength"))
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, String(obj, "reason"))
			}
		})
	}
}

func TestExtractObject_NoMatch(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"",
		"I cannot evaluate this lead.",
		`{"unrelated": true}`,
		`{"icp_fit_strength": "High"`,
	} {
		_, err := ExtractObject(text, "icp_fit_strength")
		require.Error(t, err, text)
		assert.ErrorIs(t, err, model.ErrParse)
	}
}

func TestExtractObject_NoKeysMatchesAnyObject(t *testing.T) {
	t.Parallel()

	obj, err := ExtractObject(`noise {"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, "1", String(obj, "a"))
}

func TestString(t *testing.T) {
	t.Parallel()

	obj := map[string]any{"s": "  x ", "n": 3.0, "b": true, "nil": nil}
	assert.Equal(t, "x", String(obj, "s"))
	assert.Equal(t, "3", String(obj, "n"))
	assert.Equal(t, "true", String(obj, "b"))
	assert.Empty(t, String(obj, "nil"))
	assert.Empty(t, String(obj, "missing"))
}
