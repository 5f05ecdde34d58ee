// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/db"
	"github.com/danielhkuo/valconnect/models"
)

type AnswerStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetQuestionSet(ctx context.Context, id string) (*models.QuestionSet, error)
	CreateAnswerSet(ctx context.Context, a *models.AnswerSet) error
	GetAnswerSet(ctx context.Context, questionSetID, userID string) (*models.AnswerSet, error)
	ListAnswerSets(ctx context.Context, questionSetID string) ([]models.AnswerSet, error)
	CountAnswerSets(ctx context.Context, questionSetID string) (int, error)
}

// SubmitAnswersInput is one participant's submission. The caller checks that
// Answers has one entry per prompt.
type SubmitAnswersInput struct {
	QuestionSetID string
	UserID        string
	DisplayName   string // defaults to the user's display name
	Answers       []models.AnswerPair
	IPHash        *string
	UserAgent     *string
}

// AnswerService records at most one answer set per participant.
type AnswerService struct {
	store AnswerStore
	now   func() time.Time
}

func NewAnswerService(store AnswerStore) *AnswerService {
	return &AnswerService{store: store, now: time.Now}
}

// Submit persists an answer set. Fails with NotFound if the question set or
// user is absent, and Conflict if the user already answered.
func (s *AnswerService) Submit(ctx context.Context, in SubmitAnswersInput) error {
	if _, err := s.store.GetQuestionSet(ctx, in.QuestionSetID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return NewNotFoundError("question set not found")
		}
		return err
	}

	u, err := s.store.GetUser(ctx, in.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return NewNotFoundError("user not found")
	}
	if err != nil {
		return err
	}

	displayName := u.DisplayName
	if in.DisplayName != "" {
		if displayName, err = NormalizeDisplayName(in.DisplayName); err != nil {
			return err
		}
	}

	_, err = s.store.GetAnswerSet(ctx, in.QuestionSetID, in.UserID)
	if err == nil {
		return NewConflictError("answers already submitted for this question set")
	}
	if !errors.Is(err, db.ErrNotFound) {
		return err
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return err
	}

	a := &models.AnswerSet{
		ID:            id,
		QuestionSetID: in.QuestionSetID,
		UserID:        in.UserID,
		DisplayName:   displayName,
		Answers:       in.Answers,
		IPHash:        in.IPHash,
		UserAgent:     in.UserAgent,
		SubmittedAt:   s.now().UTC(),
	}
	if err := s.store.CreateAnswerSet(ctx, a); err != nil {
		// Lost a race with a concurrent submission by the same user
		if errors.Is(err, db.ErrDuplicate) {
			return NewConflictError("answers already submitted for this question set")
		}
		return err
	}

	slog.Info("answers submitted", "question_set_id", in.QuestionSetID, "user_id", in.UserID)
	return nil
}

// HasPartnerAnswered reports whether at least two answer sets exist. It does
// not check who the caller is.
func (s *AnswerService) HasPartnerAnswered(ctx context.Context, questionSetID string) (bool, error) {
	if _, err := s.store.GetQuestionSet(ctx, questionSetID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, NewNotFoundError("question set not found")
		}
		return false, err
	}

	count, err := s.store.CountAnswerSets(ctx, questionSetID)
	if err != nil {
		return false, err
	}
	return count >= 2, nil
}

// List returns every answer set for a question set in submission order.
// Fails with NotFound when there are none.
func (s *AnswerService) List(ctx context.Context, questionSetID string) ([]models.AnswerSet, error) {
	sets, err := s.store.ListAnswerSets(ctx, questionSetID)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, NewNotFoundError("no answers found for this question set")
	}
	return sets, nil
}

// Get returns one participant's answer set.
func (s *AnswerService) Get(ctx context.Context, questionSetID, userID string) (*models.AnswerSet, error) {
	a, err := s.store.GetAnswerSet(ctx, questionSetID, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, NewNotFoundError("answers not found for this user and question set")
	}
	return a, err
}
