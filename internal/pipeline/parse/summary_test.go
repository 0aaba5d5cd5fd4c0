package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSummary(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSummary string
		wantAdvice  string
	}{
		{"with advice", "Body text.\n\nUser Weaknesses Personalize Advice: Revisit loops.", "Body text.", "Revisit loops."},
		{"case insensitive", "Body.\nuser weaknesses personalize advice:\nline one\nline two", "Body.", "line one\nline two"},
		{"no marker", "  Just a summary.  ", "Just a summary.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, advice := SplitSummary(tt.raw)
			assert.Equal(t, tt.wantSummary, summary)
			assert.Equal(t, tt.wantAdvice, advice)
		})
	}
}

func TestParseLearningPath(t *testing.T) {
	raw := "Sure! Here it is:\n```json\n{\"title\":\"Go\",\"description\":\"d\",\"steps\":[{\"title\":\"Basics\",\"description\":\"x\",\"searchQuery\":\"go basics\"}]}\n```"

	path, ok := ParseLearningPath(raw)

	assert.True(t, ok)
	assert.Equal(t, "Go", path.Title)
	assert.Equal(t, "go basics", path.Steps[0].SearchQuery)

	_, ok = ParseLearningPath("no json here")
	assert.False(t, ok)
	_, ok = ParseLearningPath("{\"title\":\"\"}")
	assert.False(t, ok)
}
