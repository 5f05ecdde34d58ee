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

var ErrUnknownMood = errors.New("unknown mood")

// GeneratedQuestions is a validated question generation reply.
type GeneratedQuestions struct {
	Mood            string
	MoodDescription string
	Questions       []string
	Options         [][]string // game only; one option list per question
}

// Generator produces question sets from the mood catalog.
type Generator struct {
	llm   Completer
	moods *MoodCatalog
}

func NewGenerator(c Completer, moods *MoodCatalog) *Generator {
	return &Generator{llm: c, moods: moods}
}

// Moods returns the catalog the generator accepts.
func (g *Generator) Moods() *MoodCatalog {
	return g.moods
}

// Generate asks the model for a question set. Returns ErrUnknownMood for a
// mood outside the catalog, ErrUnavailable when the model cannot be reached,
// and ErrMalformedResponse when the reply does not decode.
func (g *Generator) Generate(ctx context.Context, mood, interactionType, extra string) (*GeneratedQuestions, error) {
	m, ok := g.moods.Lookup(mood)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMood, mood)
	}

	reply, err := g.llm.Complete(ctx, generateSystemPrompt, generatePrompt(m, interactionType, strings.TrimSpace(extra)), generateMaxTokens)
	if err != nil {
		return nil, err
	}

	out, err := decodeGenerated(reply, interactionType)
	if err != nil {
		return nil, err
	}
	out.Mood = m.Label
	return out, nil
}

type rawGenerated struct {
	MoodDescription *string     `json:"moodDescription"`
	Questions       *[]string   `json:"questions"`
	Options         *[][]string `json:"options"`
}

func decodeGenerated(reply, interactionType string) (*GeneratedQuestions, error) {
	data, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var raw rawGenerated
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if raw.MoodDescription == nil || strings.TrimSpace(*raw.MoodDescription) == "" {
		return nil, fmt.Errorf("%w: moodDescription missing", ErrMalformedResponse)
	}
	if raw.Questions == nil || len(*raw.Questions) == 0 {
		return nil, fmt.Errorf("%w: questions missing", ErrMalformedResponse)
	}

	questions := make([]string, len(*raw.Questions))
	for i, q := range *raw.Questions {
		q = strings.TrimSpace(q)
		if q == "" {
			return nil, fmt.Errorf("%w: question %d is empty", ErrMalformedResponse, i)
		}
		questions[i] = q
	}

	out := &GeneratedQuestions{
		MoodDescription: strings.TrimSpace(*raw.MoodDescription),
		Questions:       questions,
	}

	// Options are kept only for games, and only when they line up with the questions
	if interactionType == models.InteractionGame && raw.Options != nil {
		opts := *raw.Options
		if len(opts) != len(questions) {
			return nil, fmt.Errorf("%w: %d option lists for %d questions", ErrMalformedResponse, len(opts), len(questions))
		}
		for i, o := range opts {
			if len(o) == 0 {
				return nil, fmt.Errorf("%w: question %d has no options", ErrMalformedResponse, i)
			}
		}
		out.Options = opts
	}

	return out, nil
}
