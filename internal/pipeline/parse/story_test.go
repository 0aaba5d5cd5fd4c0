package parse

import (
	"strings"
	"testing"

	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyFixture = `Game Title: The Python Quest
Game Description: Learn Python basics by helping a stranded robot.
Theme: sci-fi
Game Image Prompt: a small robot on a red planet
Chapter Count: 2
---
Chapter Name: Variables on Mars
Description: The robot needs to remember its fuel level.
Chapter Image Prompt: robot staring at a fuel gauge
Question: Which statement stores 10 in fuel?
Options:
1. fuel == 10
2. fuel = 10
3. 10 = fuel
4. let fuel 10
Answers and Explanations:
- Option 1: Incorrect. That compares values.
- Option 2: Correct! Assignment uses a single equals sign.
- Option 3: Incorrect. The name goes on the left.
- Option 4: Incorrect. That is not Python.
Success Message: The fuel gauge lights up!
---
Chapter Name: Loops in the Canyon
Description: The robot must climb 5 ledges.
Question: Which loop runs five times?
Options:
1. for i in range(5):
2. while False:
3. for i in range(4):
4. loop 5:
Answers and Explanations:
- Option 1: correct, range(5) yields five values.
- Option 2: Incorrect, it never runs.
- Option 3: Incorrect, only four.
- Option 4: Incorrect syntax.
Success Message: The robot reaches the top.`

func TestParseStoryGame_Fixture(t *testing.T) {
	game := ParseStoryGame(storyFixture)
	require.NotNil(t, game)

	assert.Equal(t, "The Python Quest", game.Title)
	assert.Equal(t, "sci-fi", game.Theme)
	assert.Equal(t, "a small robot on a red planet", game.ImagePrompt)
	assert.Equal(t, 2, game.ChapterCount)
	require.Len(t, game.Chapters, 2)

	first := game.Chapters[0]
	assert.Equal(t, "Variables on Mars", first.Name)
	assert.Equal(t, "The robot needs to remember its fuel level.", first.Description)
	assert.Equal(t, "robot staring at a fuel gauge", first.ImagePrompt)
	require.Len(t, first.Options, 4)
	assert.Equal(t, learningModel.ChapterOption{Id: "2", Text: "fuel = 10"}, first.Options[1])
	assert.Equal(t, "2", CorrectOptionId(first))
	assert.Equal(t, "The fuel gauge lights up!", first.SuccessMessage)

	second := game.Chapters[1]
	assert.Equal(t, "1", CorrectOptionId(second))
	assert.Equal(t, second.Description, ChapterImagePrompt(second))
}

func TestParseStoryGame_DropsSpuriousLeadingChapter(t *testing.T) {
	raw := strings.Replace(storyFixture,
		"---\nChapter Name: Variables on Mars",
		"---\nDescription: Learn Python basics by helping a stranded robot.\nChapter Name: Variables on Mars", 1)

	game := ParseStoryGame(raw)
	require.NotNil(t, game)

	require.Len(t, game.Chapters, 2)
	assert.Equal(t, "Variables on Mars", game.Chapters[0].Name)
}

func TestParseStoryGame_KeepsAnonymousChapterWithOwnDescription(t *testing.T) {
	raw := strings.Replace(storyFixture,
		"---\nChapter Name: Variables on Mars",
		"---\nDescription: Something else entirely.\nChapter Name: Variables on Mars", 1)

	game := ParseStoryGame(raw)
	require.NotNil(t, game)

	require.Len(t, game.Chapters, 3)
	assert.Equal(t, "", game.Chapters[0].Name)
	assert.Equal(t, "Something else entirely.", game.Chapters[0].Description)
}

func TestParseStoryGame_Blank(t *testing.T) {
	assert.Nil(t, ParseStoryGame("  \n "))
}

func TestIsCorrectExplanation(t *testing.T) {
	assert.True(t, IsCorrectExplanation("Correct! nice"))
	assert.True(t, IsCorrectExplanation("  correct."))
	assert.False(t, IsCorrectExplanation("Incorrect."))
	assert.False(t, IsCorrectExplanation("This is correct"))
}

func TestDecodeStoredStory(t *testing.T) {
	fromText := DecodeStoredStory(storyFixture)
	require.NotNil(t, fromText)
	assert.Equal(t, "The Python Quest", fromText.Title)

	fromJSON := DecodeStoredStory(`{"title":"Stored","chapters":[{"name":"One","options":[{"id":"1","text":"x"}],"answers":{"1":"Correct"}}]}`)
	require.NotNil(t, fromJSON)
	assert.Equal(t, "Stored", fromJSON.Title)
	assert.Equal(t, "1", CorrectOptionId(fromJSON.Chapters[0]))
}
