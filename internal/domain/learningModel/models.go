package learningModel

import (
	"maps"
	"slices"
)

// OptionIds are the four MCQ option letters in display order.
var OptionIds = []string{"A", "B", "C", "D"}

type Question struct {
	Id              int               `json:"id"`
	Text            string            `json:"question"`
	Options         map[string]string `json:"options"`
	CorrectOptionId string            `json:"correct_option_id"`
}

type StoryGame struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Theme        string    `json:"theme"`
	ImagePrompt  string    `json:"image_prompt"`
	ChapterCount int       `json:"chapter_count,omitempty"`
	Chapters     []Chapter `json:"chapters"`
}

type Chapter struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	ImagePrompt    string            `json:"image_prompt"`
	Question       string            `json:"question"`
	Options        []ChapterOption   `json:"options"`
	AnswerById     map[string]string `json:"answers"`
	SuccessMessage string            `json:"success_message"`
}

// CloneQuestions copies questions along with their option maps.
func CloneQuestions(questions []Question) []Question {
	out := slices.Clone(questions)
	for i := range out {
		out[i].Options = maps.Clone(out[i].Options)
	}
	return out
}

// Clone returns a copy that shares no chapters, options or answers with g.
func (g *StoryGame) Clone() *StoryGame {
	if g == nil {
		return nil
	}
	game := *g
	game.Chapters = slices.Clone(g.Chapters)
	for i := range game.Chapters {
		game.Chapters[i].Options = slices.Clone(game.Chapters[i].Options)
		game.Chapters[i].AnswerById = maps.Clone(game.Chapters[i].AnswerById)
	}
	return &game
}

type ChapterOption struct {
	Id   string `json:"id"`
	Text string `json:"text"`
}

type LearningPath struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Steps       []LearningStep `json:"steps"`
}

type LearningStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SearchQuery string `json:"searchQuery"`
}
