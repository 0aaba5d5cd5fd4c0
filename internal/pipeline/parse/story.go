package parse

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
)

type storyState int

const (
	stateHeader storyState = iota
	stateChapterHeader
	stateDescription
	stateOptions
	stateAnswers
	stateSuccess
)

func (s storyState) String() string {
	switch s {
	case stateHeader:
		return "header"
	case stateChapterHeader:
		return "chapter_header"
	case stateDescription:
		return "description"
	case stateOptions:
		return "options"
	case stateAnswers:
		return "answers"
	case stateSuccess:
		return "success"
	}
	return "unknown"
}

var (
	numberedOption = regexp.MustCompile(`^(\d+)\.\s*(.*)$`)
	optionAnswer   = regexp.MustCompile(`^- Option (\d+):\s*(.*)$`)
)

type storyParser struct {
	state   storyState
	game    learningModel.StoryGame
	current *learningModel.Chapter
}

// storyRule fires when the trimmed line matches and the parser is in one of
// the listed states (no states means any state). First match wins.
type storyRule struct {
	name   string
	states []storyState
	match  func(line string) (value string, ok bool)
	apply  func(p *storyParser, value string)
}

func prefix(p string) func(string) (string, bool) {
	return func(line string) (string, bool) {
		if !strings.HasPrefix(line, p) {
			return "", false
		}
		return strings.TrimSpace(line[len(p):]), true
	}
}

func pattern(re *regexp.Regexp) func(string) (string, bool) {
	return func(line string) (string, bool) {
		if !re.MatchString(line) {
			return "", false
		}
		return line, true
	}
}

func anyLine(line string) (string, bool) { return line, true }

var storyRules = []storyRule{
	{name: "game title", match: prefix("Game Title:"), apply: func(p *storyParser, v string) { p.game.Title = v }},
	{name: "game description", match: prefix("Game Description:"), apply: func(p *storyParser, v string) { p.game.Description = v }},
	{name: "game image prompt", match: prefix("Game Image Prompt:"), apply: func(p *storyParser, v string) { p.game.ImagePrompt = v }},
	{name: "chapter description", states: []storyState{stateChapterHeader}, match: prefix("Description:"), apply: (*storyParser).chapterDescription},
	{name: "stray description", match: prefix("Description:"), apply: func(*storyParser, string) {}},
	{name: "theme", match: prefix("Theme:"), apply: func(p *storyParser, v string) { p.game.Theme = v }},
	{name: "chapter count", match: prefix("Chapter Count:"), apply: func(p *storyParser, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			p.game.ChapterCount = n
		}
	}},
	{name: "separator", match: prefix("---"), apply: func(p *storyParser, _ string) {
		if p.state == stateHeader {
			p.state = stateChapterHeader
		}
	}},
	{name: "chapter name", match: prefix("Chapter Name:"), apply: (*storyParser).openChapter},
	{name: "chapter image prompt", match: prefix("Chapter Image Prompt:"), apply: func(p *storyParser, v string) {
		if p.current != nil {
			p.current.ImagePrompt = v
		}
	}},
	{name: "question", match: prefix("Question:"), apply: func(p *storyParser, v string) {
		if p.current != nil {
			p.current.Question = v
			p.state = stateOptions
		}
	}},
	{name: "option", states: []storyState{stateOptions}, match: pattern(numberedOption), apply: (*storyParser).addOption},
	{name: "answers header", match: prefix("Answers and Explanations:"), apply: func(p *storyParser, _ string) { p.state = stateAnswers }},
	{name: "answer", states: []storyState{stateAnswers}, match: pattern(optionAnswer), apply: (*storyParser).addAnswer},
	{name: "success message", match: prefix("Success Message:"), apply: func(p *storyParser, v string) {
		p.state = stateSuccess
		if p.current != nil {
			p.current.SuccessMessage = v
		}
	}},
	{name: "description continuation", states: []storyState{stateDescription}, match: anyLine, apply: func(p *storyParser, v string) {
		if p.current != nil && p.current.Description == "" {
			p.current.Description = v
		}
	}},
}

func (r storyRule) allowed(s storyState) bool {
	if len(r.states) == 0 {
		return true
	}
	for _, st := range r.states {
		if st == s {
			return true
		}
	}
	return false
}

func (p *storyParser) openChapter(name string) {
	p.closeChapter()
	p.current = &learningModel.Chapter{
		Name:       name,
		Options:    []learningModel.ChapterOption{},
		AnswerById: map[string]string{},
	}
	p.state = stateChapterHeader
}

func (p *storyParser) closeChapter() {
	if p.current != nil {
		p.game.Chapters = append(p.game.Chapters, *p.current)
		p.current = nil
	}
}

// A Description: line right after a separator may come before any chapter
// name; that opens an anonymous chapter.
func (p *storyParser) chapterDescription(v string) {
	if p.current == nil {
		p.current = &learningModel.Chapter{Options: []learningModel.ChapterOption{}, AnswerById: map[string]string{}}
	}
	if p.current.Description == "" {
		p.current.Description = v
	}
	p.state = stateDescription
}

func (p *storyParser) addOption(line string) {
	if p.current == nil {
		return
	}
	m := numberedOption.FindStringSubmatch(line)
	p.current.Options = append(p.current.Options, learningModel.ChapterOption{Id: m[1], Text: strings.TrimSpace(m[2])})
}

func (p *storyParser) addAnswer(line string) {
	if p.current == nil {
		return
	}
	m := optionAnswer.FindStringSubmatch(line)
	p.current.AnswerById[m[1]] = strings.TrimSpace(m[2])
}

func (p *storyParser) feed(line string) {
	for _, rule := range storyRules {
		if !rule.allowed(p.state) {
			continue
		}
		if v, ok := rule.match(line); ok {
			rule.apply(p, v)
			return
		}
	}
	logger.Debug("story line ignored", "state", p.state.String(), "line", line)
}

// ParseStoryGame runs the line state machine over raw completion text.
// It returns nil when the input is blank.
func ParseStoryGame(raw string) *learningModel.StoryGame {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if raw == "" {
		return nil
	}

	p := &storyParser{state: stateHeader}
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			p.feed(line)
		}
	}
	p.closeChapter()

	game := p.game
	game.Chapters = dropSpuriousLeadingChapter(game)
	if len(game.Chapters) == 0 {
		logger.Warn("story game parsed without chapters", "title", game.Title)
	}
	return &game
}

// dropSpuriousLeadingChapter removes a first chapter that has no name and only
// repeats the game description. The model sometimes emits the game description
// under the first separator; this is a heuristic for that output, nothing more.
func dropSpuriousLeadingChapter(game learningModel.StoryGame) []learningModel.Chapter {
	chapters := game.Chapters
	if len(chapters) > 0 && chapters[0].Name == "" && chapters[0].Description == game.Description {
		logger.Debug("dropping spurious leading chapter", "description", game.Description)
		return chapters[1:]
	}
	return chapters
}

// CorrectOptionId returns the first option whose explanation starts with
// "correct", ignoring case. Empty when no option qualifies.
func CorrectOptionId(ch learningModel.Chapter) string {
	for _, opt := range ch.Options {
		if IsCorrectExplanation(ch.AnswerById[opt.Id]) {
			return opt.Id
		}
	}
	return ""
}

func IsCorrectExplanation(explanation string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(explanation)), "correct")
}

// ChapterImagePrompt falls back to the description when no prompt was given.
func ChapterImagePrompt(ch learningModel.Chapter) string {
	if ch.ImagePrompt != "" {
		return ch.ImagePrompt
	}
	return ch.Description
}

// DecodeStoredStory reads a story table row. Rows hold either the parsed game as
// JSON or raw completion text.
func DecodeStoredStory(stored string) *learningModel.StoryGame {
	trimmed := strings.TrimSpace(stored)
	if strings.HasPrefix(trimmed, "{") {
		var game learningModel.StoryGame
		if err := json.Unmarshal([]byte(trimmed), &game); err == nil {
			return &game
		}
		logger.Warn("stored story is not valid json, parsing as text")
	}
	return ParseStoryGame(stored)
}
