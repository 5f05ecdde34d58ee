// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/valconnect/models"
)

const (
	// QuestionCount is how many prompts a generated question set asks for.
	QuestionCount = 5
	// OptionCount is how many answer options each game prompt asks for.
	OptionCount = 4
	// ClosingQuestion is always requested as the last prompt.
	ClosingQuestion = "Who is she/he to you?"

	generateSystemPrompt = "You are a relationship coach creating personalized questions for couples or friends based on their mood."
	compareSystemPrompt  = "You are a relationship coach judging how well two partners know and complement each other."

	generateMaxTokens = 1024
	compareMaxTokens  = 2000
)

const gameShape = `{
  "moodDescription": "why these questions fit the mood",
  "questions": ["question 1", "question 2", "question 3", "question 4", "question 5"],
  "options": [["a", "b", "c", "d"], ["a", "b", "c", "d"], ["a", "b", "c", "d"], ["a", "b", "c", "d"], ["a", "b", "c", "d"]]
}
`

const conversationShape = `{
  "moodDescription": "why these questions fit the mood",
  "questions": ["question 1", "question 2", "question 3", "question 4", "question 5"]
}
`

const comparisonShape = `{
  "comparisons": [
    {
      "questionIndex": 0,
      "compatibility": 85,
      "explanation": "why these answers do or do not fit together",
      "points": 17
    }
  ],
  "overallScore": 82,
  "overallFeedback": "what the partners do well together and where to grow",
  "totalPoints": 82
}
`

// generatePrompt renders the user message for question generation.
func generatePrompt(mood Mood, interactionType, extra string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d thoughtful and engaging questions for two partners.\n", QuestionCount)
	fmt.Fprintf(&b, "Mood: %s\n", mood.Label)
	fmt.Fprintf(&b, "Mood description: %s\n", mood.Description)
	fmt.Fprintf(&b, "Interaction type: %s\n", interactionType)
	if extra != "" {
		fmt.Fprintf(&b, "Additional context: %s\n", extra)
	}

	b.WriteString("\nThe questions should:\n")
	b.WriteString("- Fit the mood and avoid cliches\n")
	b.WriteString("- Suit any stage of a relationship, from new to long-term\n")
	if interactionType == models.InteractionGame {
		b.WriteString("- Be playful and test how well the partners know each other, like \"What is my favorite color?\"\n")
		fmt.Fprintf(&b, "- Each come with exactly %d short answer options\n", OptionCount)
	} else {
		b.WriteString("- Be open-ended and spark a meaningful conversation, with no answer options\n")
	}
	fmt.Fprintf(&b, "- End with the question \"%s\"\n", ClosingQuestion)

	b.WriteString("\nRespond with only a JSON object of this shape:\n")
	if interactionType == models.InteractionGame {
		b.WriteString(gameShape)
	} else {
		b.WriteString(conversationShape)
	}

	return b.String()
}

// comparePrompt renders the user message for answer comparison.
func comparePrompt(in CompareInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Compare the answers %s and %s gave to the same questions.\n", in.User1Name, in.User2Name)
	fmt.Fprintf(&b, "Mood: %s\n", in.Mood)
	fmt.Fprintf(&b, "Interaction type: %s\n", in.InteractionType)

	for i, q := range in.Questions {
		fmt.Fprintf(&b, "\nQ%d: %s\n", i+1, q)
		fmt.Fprintf(&b, "%s: %s\n", in.User1Name, in.User1Answers[i])
		fmt.Fprintf(&b, "%s: %s\n", in.User2Name, in.User2Answers[i])
	}

	b.WriteString("\nFor each question, judge how well the answers complement each other and how well the partners know each other in the context of the mood.\n")
	fmt.Fprintf(&b, "Return one comparison per question, in order, with questionIndex counting from 0 to %d.\n", len(in.Questions)-1)
	b.WriteString("compatibility and overallScore are integers from 0 to 100. points is the integer number of points awarded for a question and totalPoints is the sum of all points.\n")

	b.WriteString("\nRespond with only a JSON object of this shape:\n")
	b.WriteString(comparisonShape)

	return b.String()
}
