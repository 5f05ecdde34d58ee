// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"context"
	"errors"
	"testing"
)

func compareInput() CompareInput {
	return CompareInput{
		Mood:            "Flirty/Romantic",
		InteractionType: "conversation",
		User1Name:       "Alice",
		User2Name:       "Bob",
		Questions:       []string{"Dream date?", "Who is she/he to you?"},
		User1Answers:    []string{"Picnic", "My best friend"},
		User2Answers:    []string{"Stargazing", "My partner"},
	}
}

const validComparison = `{
	"comparisons": [
		{"questionIndex": 0, "question": "ignored", "compatibility": 70, "explanation": " Both outdoors ", "points": 14},
		{"questionIndex": 1, "compatibility": 95, "explanation": "Deep bond", "points": 19}
	],
	"overallScore": 83,
	"overallFeedback": "Great match",
	"totalPoints": 33
}`

func TestComparatorCompare(t *testing.T) {
	stub := &stubCompleter{reply: "Result:\n" + validComparison}
	c := NewComparator(stub)

	out, err := c.Compare(context.Background(), compareInput())
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if out.OverallScore != 83 || out.TotalPoints != 33 || out.OverallFeedback != "Great match" {
		t.Errorf("unexpected result %+v", out)
	}
	if len(out.Comparisons) != 2 {
		t.Fatalf("got %d comparisons, want 2", len(out.Comparisons))
	}

	first := out.Comparisons[0]
	if first.Question != "Dream date?" {
		t.Errorf("question text should come from input, got %q", first.Question)
	}
	if first.User1Answer != "Picnic" || first.User2Answer != "Stargazing" {
		t.Errorf("answers = %q / %q", first.User1Answer, first.User2Answer)
	}
	if first.User1Name != "Alice" || first.User2Name != "Bob" {
		t.Errorf("names = %q / %q", first.User1Name, first.User2Name)
	}
	if first.Explanation != "Both outdoors" || first.Points != 14 || first.Compatibility != 70 {
		t.Errorf("unexpected comparison %+v", first)
	}
	if stub.system != compareSystemPrompt {
		t.Error("comparator did not send its system prompt")
	}
}

func TestComparatorInputValidation(t *testing.T) {
	stub := &stubCompleter{reply: validComparison}
	c := NewComparator(stub)

	in := compareInput()
	in.User2Answers = in.User2Answers[:1]
	if _, err := c.Compare(context.Background(), in); err == nil {
		t.Error("expected error for mismatched answers")
	}

	if _, err := c.Compare(context.Background(), CompareInput{}); err == nil {
		t.Error("expected error for no questions")
	}

	if stub.calls != 0 {
		t.Errorf("model called %d times for invalid input", stub.calls)
	}
}

func TestComparatorMalformed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json", "I'd rather not"},
		{"missing comparisons", `{"overallScore": 80, "overallFeedback": "x", "totalPoints": 1}`},
		{"missing overall score", `{"comparisons": [], "overallFeedback": "x", "totalPoints": 1}`},
		{"missing feedback", `{"comparisons": [], "overallScore": 80, "totalPoints": 1}`},
		{"missing total points", `{"comparisons": [], "overallScore": 80, "overallFeedback": "x"}`},
		{"score out of range", `{"comparisons": [
			{"questionIndex": 0, "compatibility": 70, "explanation": "a", "points": 1},
			{"questionIndex": 1, "compatibility": 70, "explanation": "b", "points": 1}
		], "overallScore": 130, "overallFeedback": "x", "totalPoints": 2}`},
		{"fractional score", `{"comparisons": [], "overallScore": 80.5, "overallFeedback": "x", "totalPoints": 1}`},
		{"string score", `{"comparisons": [], "overallScore": "80", "overallFeedback": "x", "totalPoints": 1}`},
		{"too few comparisons", `{"comparisons": [
			{"questionIndex": 0, "compatibility": 70, "explanation": "a", "points": 1}
		], "overallScore": 80, "overallFeedback": "x", "totalPoints": 1}`},
		{"one-based index", `{"comparisons": [
			{"questionIndex": 1, "compatibility": 70, "explanation": "a", "points": 1},
			{"questionIndex": 2, "compatibility": 70, "explanation": "b", "points": 1}
		], "overallScore": 80, "overallFeedback": "x", "totalPoints": 2}`},
		{"compatibility out of range", `{"comparisons": [
			{"questionIndex": 0, "compatibility": -5, "explanation": "a", "points": 1},
			{"questionIndex": 1, "compatibility": 70, "explanation": "b", "points": 1}
		], "overallScore": 80, "overallFeedback": "x", "totalPoints": 2}`},
		{"missing points", `{"comparisons": [
			{"questionIndex": 0, "compatibility": 70, "explanation": "a"},
			{"questionIndex": 1, "compatibility": 70, "explanation": "b", "points": 1}
		], "overallScore": 80, "overallFeedback": "x", "totalPoints": 2}`},
		{"missing explanation", `{"comparisons": [
			{"questionIndex": 0, "compatibility": 70, "points": 1},
			{"questionIndex": 1, "compatibility": 70, "explanation": "b", "points": 1}
		], "overallScore": 80, "overallFeedback": "x", "totalPoints": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComparator(&stubCompleter{reply: tt.reply})
			_, err := c.Compare(context.Background(), compareInput())
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("Compare() error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestComparatorUnavailable(t *testing.T) {
	c := NewComparator(&stubCompleter{err: ErrUnavailable})
	if _, err := c.Compare(context.Background(), compareInput()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Compare() error = %v, want ErrUnavailable", err)
	}
}
