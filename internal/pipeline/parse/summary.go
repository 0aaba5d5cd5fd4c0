package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
)

// AdviceMarker introduces the personalised advice section of a summary.
const AdviceMarker = "User Weaknesses Personalize Advice:"

var (
	adviceSection = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(AdviceMarker) + `(.*)`)
	jsonObject    = regexp.MustCompile(`(?s)\{.*\}`)
)

// SplitSummary separates the summary body from the advice section.
func SplitSummary(raw string) (summary string, advice string) {
	loc := adviceSection.FindStringSubmatchIndex(raw)
	if loc == nil {
		return strings.TrimSpace(raw), ""
	}
	return strings.TrimSpace(raw[:loc[0]]), strings.TrimSpace(raw[loc[2]:loc[3]])
}

// ParseLearningPath pulls the outermost JSON object out of the completion text.
func ParseLearningPath(raw string) (learningModel.LearningPath, bool) {
	var path learningModel.LearningPath
	obj := jsonObject.FindString(raw)
	if obj == "" {
		return path, false
	}
	if err := json.Unmarshal([]byte(obj), &path); err != nil {
		logger.Warn("learning path is not valid json", "error", err)
		return path, false
	}
	if path.Title == "" || len(path.Steps) == 0 {
		return path, false
	}
	return path, true
}
