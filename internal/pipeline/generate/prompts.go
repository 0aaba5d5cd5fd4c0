package generate

import "fmt"

func summaryPrompt(text string) string {
	return fmt.Sprintf("Please summarize in detail the following text extracted from a PDF:\n\n%s. "+
		"At the end of the summary, add a fake personalize user advice based on past record, but never write it as fake, "+
		"start with \"User Weaknesses Personalize Advice:\"", text)
}

const mcqPromptTemplate = `
Generate 8 multiple-choice questions (MCQs) using only the text provided below.

Text:

"""

%s

"""

Strictly follow this format for EACH question, numbering them 1 to 8:

1. Question: [Question text]
A. [Option 1]
B. [Option 2]
C. [Option 3]
D. [Option 4]
Answer: Y

2. Question: [Question text]
A. [Option 1]
B. [Option 2]
C. [Option 3]
D. [Option 4]
Answer: Y

... and so on for 8 questions.

Rules:
1. Each question must be clear, relevant, and fully self-contained based *only* on the provided text. Do not reference external slides, images, diagrams, or sources.
2. Do NOT include step-by-step reasoning, key point summaries, or explanations before the questions.
3. Answer choices must be strictly based on the provided text, avoiding external details or assumptions.
4. Ensure only one correct answer exists for each question without ambiguity.
5. Do NOT rephrase or append the correct answer after "Answer: Y". It should only be "A", "B", "C", or "D".
6. Do NOT format answers like "Answer: B. Pleura Reflection". The correct format is "Answer: B".
7. Do not use phrases like "According to the text", "Based on the passage", etc. Questions must read as if the text is the sole source.
8. ABSOLUTELY NO phrases like "in the provided text", "in the diagram", "mentioned in the text", "based on the figure", etc., within the question itself. Questions must be standalone.
9. Ensure exactly 8 questions are generated in the specified format. Separate each question block clearly.
`

func mcqPrompt(text string) string {
	return fmt.Sprintf(mcqPromptTemplate, text)
}

const storyPromptTemplate = `
You are an AI game designer. I want you to help me generate an interactive story game based on an educational topic. Follow the structure below closely.
---
Game Template
Game Title: [Give the game an engaging title based on the subject]
Game Description: [Brief overview of the game and its learning purpose]
Theme: [Story setting or genre, e.g., fantasy, sci-fi, detective]
Game Image Prompt: [short image prompt for game image with no text]
Chapter Count: [Number of chapters covering key concepts]
---
For each chapter, use the following format:
Chapter Name: [Creative and theme-appropriate title]
Description: [Story setting and situation that introduces a concept in a fun and immersive way]
Chapter Image Prompt: [short image prompt for image generation with no text for each chapter]
Question: [The educational question embedded in the story context. Should involve a concept from the subject.]
Options:
1. [Option 1]
2. [Option 2]
3. [Option 3]
4. [Option 4]
Answers and Explanations:
- Option 1: [Correct/Incorrect + explanation and story reaction]
- Option 2: [Correct/Incorrect + explanation and story reaction]
- Option 3: [Correct/Incorrect + explanation and story reaction]
- Option 4: [Correct/Incorrect + explanation and story reaction]
Success Message: [Message shown when the correct answer is chosen, progressing the story]
---
Your job is to design this game based on the following topic or document:

"""
%s
"""

Make sure the story is engaging, the setting reflects the theme, the educational parts are accurate and clear, and the image prompts are concise and relevant to the content. Be immersive, creative, and fun!
`

func storyPrompt(text string) string {
	return fmt.Sprintf(storyPromptTemplate, text)
}

func advicePrompt(wrongBlock string) string {
	return fmt.Sprintf("Here is a wrong MCQ question and answer:\n\n%s\n\n"+
		"Please provide a short advice (no more than 3 sentences) on which part the I should focus to study to improve.", wrongBlock)
}

func searchQueryPrompt(input string) string {
	return fmt.Sprintf("You are an educational assistant that helps users find the best learning resources. "+
		"Analyze the learning goal and create an optimized search query that will find the most relevant educational resources. "+
		"Reply with the query only.\n\nI want to learn: %s.", input)
}

func learningPathPrompt(topic string) string {
	return fmt.Sprintf(`You are an AI educational expert specializing in creating structured learning paths.
Break the topic into 4-5 sequential steps that progress from basics to more advanced concepts, each building on the previous one.
Give every step a descriptive title, an explanation, and an optimized search query for finding resources.

Create a structured learning path for %q.
Return it in this exact JSON format:
{
  "title": "Main topic title",
  "description": "Brief overview of this learning path",
  "steps": [
    {
      "title": "Step 1 title",
      "description": "Detailed description of what to learn in step 1",
      "searchQuery": "Optimized search query for step 1 resources"
    }
  ]
}`, topic)
}
