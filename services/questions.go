// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/db"
	"github.com/danielhkuo/valconnect/llm"
	"github.com/danielhkuo/valconnect/models"
)

// MaxContextLength bounds the free-text context passed to the generator.
const MaxContextLength = 500

type QuestionSetStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateQuestionSet(ctx context.Context, qs *models.QuestionSet) error
	GetQuestionSet(ctx context.Context, id string) (*models.QuestionSet, error)
	GetQuestionSetBySlug(ctx context.Context, slug string) (*models.QuestionSet, error)
	ListQuestionSetsByUser(ctx context.Context, userID string) ([]models.QuestionSet, error)
}

// QuestionGenerator produces prompts for a mood and interaction type.
type QuestionGenerator interface {
	Generate(ctx context.Context, mood, interactionType, extra string) (*llm.GeneratedQuestions, error)
}

// QuestionSetService creates and serves generated question sets.
type QuestionSetService struct {
	store    QuestionSetStore
	gen      QuestionGenerator
	slugSalt string
	now      func() time.Time
}

func NewQuestionSetService(store QuestionSetStore, gen QuestionGenerator, slugSalt string) *QuestionSetService {
	return &QuestionSetService{store: store, gen: gen, slugSalt: slugSalt, now: time.Now}
}

// Create generates and persists a question set for creatorID, incrementing
// the creator's counter in the same transaction. Returns the new ID.
func (s *QuestionSetService) Create(ctx context.Context, creatorID, mood, interactionType, extra string) (string, error) {
	mood = strings.TrimSpace(mood)
	extra = strings.TrimSpace(extra)
	if mood == "" {
		return "", NewInvalidError("mood is required")
	}
	if interactionType != models.InteractionGame && interactionType != models.InteractionConversation {
		return "", NewInvalidError("interaction_type must be 'game' or 'conversation'")
	}
	if utf8.RuneCountInString(extra) > MaxContextLength {
		return "", NewInvalidError("context is too long")
	}

	if _, err := s.store.GetUser(ctx, creatorID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", NewNotFoundError("creator not found")
		}
		return "", err
	}

	generated, err := s.gen.Generate(ctx, mood, interactionType, extra)
	if err != nil {
		slog.Error("question generation failed", "creator_id", creatorID, "mood", mood, "error", err)
		return "", upstreamError("generate questions", err)
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return "", err
	}

	qs := &models.QuestionSet{
		ID:              id,
		UserID:          creatorID,
		Mood:            generated.Mood,
		InteractionType: interactionType,
		MoodDescription: generated.MoodDescription,
		Context:         extra,
		Prompts:         generated.Questions,
		Options:         generated.Options,
		ShareSlug:       auth.GenerateShareSlug(id, s.slugSalt),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.store.CreateQuestionSet(ctx, qs); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", NewNotFoundError("creator not found")
		}
		return "", err
	}

	slog.Info("question set created", "question_set_id", id, "creator_id", creatorID, "prompts", len(qs.Prompts))
	return id, nil
}

// Get returns a question set by ID.
func (s *QuestionSetService) Get(ctx context.Context, id string) (*models.QuestionSet, error) {
	qs, err := s.store.GetQuestionSet(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, NewNotFoundError("question set not found")
	}
	return qs, err
}

// GetBySlug returns a question set by its share slug.
func (s *QuestionSetService) GetBySlug(ctx context.Context, slug string) (*models.QuestionSet, error) {
	qs, err := s.store.GetQuestionSetBySlug(ctx, slug)
	if errors.Is(err, db.ErrNotFound) {
		return nil, NewNotFoundError("question set not found")
	}
	return qs, err
}

// ListByUser returns the user's question sets, most recent first.
func (s *QuestionSetService) ListByUser(ctx context.Context, userID string) ([]models.QuestionSet, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, err
	}
	return s.store.ListQuestionSetsByUser(ctx, userID)
}
