// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/valconnect/models"
)

// CompareInput holds both participants' answers in parallel-array form.
type CompareInput struct {
	Mood            string
	InteractionType string
	User1Name       string
	User2Name       string
	Questions       []string
	User1Answers    []string
	User2Answers    []string
}

// ComparisonResult is a validated comparison reply. Question text, answers
// and names in Comparisons come from the input, not from the model.
type ComparisonResult struct {
	Comparisons     []models.Comparison
	OverallScore    int
	OverallFeedback string
	TotalPoints     int
}

// Comparator scores two answer sets against each other.
type Comparator struct {
	llm Completer
}

func NewComparator(c Completer) *Comparator {
	return &Comparator{llm: c}
}

// Compare asks the model to compare both answer lists. Returns
// ErrUnavailable when the model cannot be reached and ErrMalformedResponse
// when the reply does not decode or does not cover every question.
func (c *Comparator) Compare(ctx context.Context, in CompareInput) (*ComparisonResult, error) {
	n := len(in.Questions)
	if n == 0 {
		return nil, errors.New("no questions to compare")
	}
	if len(in.User1Answers) != n || len(in.User2Answers) != n {
		return nil, fmt.Errorf("answer counts %d and %d do not match %d questions", len(in.User1Answers), len(in.User2Answers), n)
	}

	reply, err := c.llm.Complete(ctx, compareSystemPrompt, comparePrompt(in), compareMaxTokens)
	if err != nil {
		return nil, err
	}

	return decodeComparison(reply, in)
}

type rawComparison struct {
	QuestionIndex *int    `json:"questionIndex"`
	Compatibility *int    `json:"compatibility"`
	Explanation   *string `json:"explanation"`
	Points        *int    `json:"points"`
}

type rawComparisonResult struct {
	Comparisons     *[]rawComparison `json:"comparisons"`
	OverallScore    *int             `json:"overallScore"`
	OverallFeedback *string          `json:"overallFeedback"`
	TotalPoints     *int             `json:"totalPoints"`
}

func decodeComparison(reply string, in CompareInput) (*ComparisonResult, error) {
	data, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var raw rawComparisonResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case raw.Comparisons == nil:
		return nil, fmt.Errorf("%w: comparisons missing", ErrMalformedResponse)
	case raw.OverallScore == nil:
		return nil, fmt.Errorf("%w: overallScore missing", ErrMalformedResponse)
	case raw.OverallFeedback == nil || strings.TrimSpace(*raw.OverallFeedback) == "":
		return nil, fmt.Errorf("%w: overallFeedback missing", ErrMalformedResponse)
	case raw.TotalPoints == nil:
		return nil, fmt.Errorf("%w: totalPoints missing", ErrMalformedResponse)
	}
	if !inPercentRange(*raw.OverallScore) {
		return nil, fmt.Errorf("%w: overallScore %d out of range", ErrMalformedResponse, *raw.OverallScore)
	}
	if *raw.TotalPoints < 0 {
		return nil, fmt.Errorf("%w: negative totalPoints", ErrMalformedResponse)
	}

	items := *raw.Comparisons
	if len(items) != len(in.Questions) {
		return nil, fmt.Errorf("%w: %d comparisons for %d questions", ErrMalformedResponse, len(items), len(in.Questions))
	}

	comparisons := make([]models.Comparison, len(items))
	for i, item := range items {
		if item.QuestionIndex == nil || *item.QuestionIndex != i {
			return nil, fmt.Errorf("%w: comparison %d has wrong questionIndex", ErrMalformedResponse, i)
		}
		if item.Compatibility == nil || !inPercentRange(*item.Compatibility) {
			return nil, fmt.Errorf("%w: comparison %d compatibility missing or out of range", ErrMalformedResponse, i)
		}
		if item.Explanation == nil {
			return nil, fmt.Errorf("%w: comparison %d explanation missing", ErrMalformedResponse, i)
		}
		if item.Points == nil || *item.Points < 0 {
			return nil, fmt.Errorf("%w: comparison %d points missing or negative", ErrMalformedResponse, i)
		}

		comparisons[i] = models.Comparison{
			QuestionIndex: i,
			Question:      in.Questions[i],
			User1Answer:   in.User1Answers[i],
			User2Answer:   in.User2Answers[i],
			User1Name:     in.User1Name,
			User2Name:     in.User2Name,
			Compatibility: *item.Compatibility,
			Explanation:   strings.TrimSpace(*item.Explanation),
			Points:        *item.Points,
		}
	}

	return &ComparisonResult{
		Comparisons:     comparisons,
		OverallScore:    *raw.OverallScore,
		OverallFeedback: strings.TrimSpace(*raw.OverallFeedback),
		TotalPoints:     *raw.TotalPoints,
	}, nil
}

func inPercentRange(v int) bool {
	return v >= 0 && v <= 100
}
