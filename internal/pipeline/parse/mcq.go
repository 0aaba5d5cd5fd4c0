package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var (
	logger = logger_i.NewLogger("Parser")

	questionBoundary = regexp.MustCompile(`(?m)^\s*\d+\.\s*Question:`)
	questionLine     = regexp.MustCompile(`^\d+\.\s*Question:\s*(.*)$`)
	answerLine       = regexp.MustCompile(`^Answer:\s*([A-D])`)
)

// minimum lines in a block: question, four options, answer
const mcqBlockLines = 6

// ParseMcqs turns raw completion text into questions. Malformed blocks are
// skipped with a warning; ids are assigned in order over the valid blocks only.
func ParseMcqs(raw string) []learningModel.Question {
	questions := make([]learningModel.Question, 0, 8)
	for _, block := range splitMcqBlocks(raw) {
		q, ok := parseMcqBlock(block)
		if !ok {
			logger.Warn("could not parse MCQ block", "block", block)
			continue
		}
		q.Id = len(questions) + 1
		questions = append(questions, q)
	}
	return questions
}

func splitMcqBlocks(raw string) []string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if raw == "" {
		return nil
	}
	starts := questionBoundary.FindAllStringIndex(raw, -1)
	if len(starts) == 0 {
		return []string{raw}
	}

	var blocks []string
	if lead := strings.TrimSpace(raw[:starts[0][0]]); lead != "" {
		blocks = append(blocks, lead)
	}
	for i, loc := range starts {
		end := len(raw)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		blocks = append(blocks, strings.TrimSpace(raw[loc[0]:end]))
	}
	return blocks
}

func nonEmptyLines(block string) []string {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func parseMcqBlock(block string) (learningModel.Question, bool) {
	lines := nonEmptyLines(block)
	if len(lines) < mcqBlockLines {
		return learningModel.Question{}, false
	}

	qm := questionLine.FindStringSubmatch(lines[0])
	if qm == nil {
		return learningModel.Question{}, false
	}

	options := make(map[string]string, len(learningModel.OptionIds))
	for i, id := range learningModel.OptionIds {
		text, ok := optionText(lines[i+1], id)
		if !ok {
			return learningModel.Question{}, false
		}
		options[id] = text
	}

	am := answerLine.FindStringSubmatch(lines[5])
	if am == nil {
		return learningModel.Question{}, false
	}

	return learningModel.Question{
		Text:            strings.TrimSpace(qm[1]),
		Options:         options,
		CorrectOptionId: am[1],
	}, true
}

func optionText(line string, id string) (string, bool) {
	prefix := id + "."
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	text := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	return text, text != ""
}

// FormatQuestion rebuilds the block a question was parsed from.
func FormatQuestion(q learningModel.Question) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. Question: %s\n", q.Id, q.Text)
	for _, id := range learningModel.OptionIds {
		fmt.Fprintf(&sb, "%s. %s\n", id, q.Options[id])
	}
	fmt.Fprintf(&sb, "Answer: %s", q.CorrectOptionId)
	return sb.String()
}

// FormatQuestions joins blocks the way the completion service emits them, so
// the output parses back into the same questions.
func FormatQuestions(questions []learningModel.Question) string {
	blocks := make([]string, 0, len(questions))
	for _, q := range questions {
		blocks = append(blocks, FormatQuestion(q))
	}
	return strings.Join(blocks, "\n\n")
}

// FormatWrongAnswer is the block sent when asking for study advice.
func FormatWrongAnswer(q learningModel.Question, chosen string) string {
	return FormatQuestion(q) + "\nYour Answer: " + chosen
}
