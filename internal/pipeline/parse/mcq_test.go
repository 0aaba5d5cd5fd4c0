package parse

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqBlock(n int, answer string) string {
	return fmt.Sprintf("%d. Question: What is item %d?\nA. alpha %d\nB. beta %d\nC. gamma %d\nD. delta %d\nAnswer: %s",
		n, n, n, n, n, n, answer)
}

func eightBlocks() []string {
	answers := []string{"A", "B", "C", "D", "A", "B", "C", "D"}
	blocks := make([]string, 0, len(answers))
	for i, a := range answers {
		blocks = append(blocks, mcqBlock(i+1, a))
	}
	return blocks
}

func TestParseMcqs_EightWellFormedBlocks(t *testing.T) {
	questions := ParseMcqs(strings.Join(eightBlocks(), "\n\n"))

	require.Len(t, questions, 8)
	for i, q := range questions {
		assert.Equal(t, i+1, q.Id)
		assert.Len(t, q.Options, 4)
		assert.Contains(t, learningModel.OptionIds, q.CorrectOptionId)
	}
}

func TestParseMcqs_MissingAnswerLineIsSkipped(t *testing.T) {
	blocks := eightBlocks()
	blocks[4] = strings.Replace(blocks[4], "\nAnswer: A", "", 1)

	var buf bytes.Buffer
	prevDefault, saved := slog.Default(), logger
	logger_i.InitWithWriter(&buf)
	logger = logger_i.NewLogger("Parser")
	t.Cleanup(func() {
		slog.SetDefault(prevDefault)
		logger = saved
	})

	questions := ParseMcqs(strings.Join(blocks, "\n\n"))

	require.Len(t, questions, 7)
	assert.Equal(t, "What is item 4?", questions[3].Text)
	assert.Equal(t, "What is item 6?", questions[4].Text)
	assert.Equal(t, 5, questions[4].Id)
	assert.Equal(t, 1, strings.Count(buf.String(), "could not parse MCQ block"))
}

func TestParseMcqs_AnswerC(t *testing.T) {
	raw := "1. Question: Which keyword defines a function in Python?\n" +
		"A. func\nB. function\nC. def\nD. lambda\nAnswer: C"

	questions := ParseMcqs(raw)

	require.Len(t, questions, 1)
	assert.Equal(t, "C", questions[0].CorrectOptionId)
	assert.Equal(t, "def", questions[0].Options["C"])
	assert.Equal(t, "Which keyword defines a function in Python?", questions[0].Text)
}

func TestParseMcqs_Tolerance(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"empty", "", 0},
		{"preamble before first question", "Here are your questions:\n\n" + mcqBlock(1, "B"), 1},
		{"blank lines inside a block", "1. Question: Q?\n\nA. a\nB. b\n\nC. c\nD. d\n\nAnswer: D", 1},
		{"windows line endings", strings.ReplaceAll(mcqBlock(1, "A")+"\n\n"+mcqBlock(2, "B"), "\n", "\r\n"), 2},
		{"answer outside A-D", strings.Replace(mcqBlock(1, "A"), "Answer: A", "Answer: E", 1), 0},
		{"option out of order", "1. Question: Q?\nB. b\nA. a\nC. c\nD. d\nAnswer: A", 0},
		{"answer with trailing text", strings.Replace(mcqBlock(1, "A"), "Answer: A", "Answer: A. alpha 1", 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ParseMcqs(tt.raw), tt.want)
		})
	}
}

func TestFormatQuestions_RoundTrip(t *testing.T) {
	original := ParseMcqs(strings.Join(eightBlocks(), "\n\n"))
	require.Len(t, original, 8)

	reparsed := ParseMcqs(FormatQuestions(original))

	assert.Equal(t, original, reparsed)
}

func TestFormatWrongAnswer(t *testing.T) {
	q := ParseMcqs(mcqBlock(3, "C"))[0]

	block := FormatWrongAnswer(q, "A")

	assert.True(t, strings.HasPrefix(block, "1. Question: What is item 3?\nA. alpha 3"))
	assert.True(t, strings.HasSuffix(block, "Answer: C\nYour Answer: A"))
}
