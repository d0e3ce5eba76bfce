// gemini_test.go

package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponseStripsFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"json fence",
			"```json\n{\"records\": []}\n```",
			`{"records": []}`,
		},
		{
			"bare fence",
			"```\n{\"matches\": {}}\n```",
			`{"matches": {}}`,
		},
		{
			"no fence",
			`{"records": []}`,
			`{"records": []}`,
		},
		{
			"prose before fence",
			"Here is the result:\n```json\n{\"a\": 1}\n```\nDone.",
			`{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanJSONResponse(tt.input))
		})
	}
}

func TestCleanJSONResponseEscapesControlChars(t *testing.T) {
	input := "{\"school\": \"BISE,\nSukkur\"}"
	assert.Equal(t, `{"school": "BISE,\nSukkur"}`, cleanJSONResponse(input))

	// already-escaped sequences stay intact
	clean := `{"school": "BISE,\nSukkur"}`
	assert.Equal(t, clean, cleanJSONResponse(clean))
}

func TestNameMatchingPromptEmbedsLists(t *testing.T) {
	prompt, err := nameMatchingPrompt(
		[]string{"Shery", "Raheel Khan"},
		[]string{"Sheharyar", "Muhammad Shoaib Khan"},
	)
	require.NoError(t, err)
	assert.Contains(t, prompt, `"Shery"`)
	assert.Contains(t, prompt, `"Raheel Khan"`)
	assert.Contains(t, prompt, `"Sheharyar"`)
	assert.Contains(t, prompt, "List A")
	assert.Contains(t, prompt, "List B")
}
