// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/db"
	"github.com/danielhkuo/valconnect/llm"
	"github.com/danielhkuo/valconnect/models"
)

type ScoreStore interface {
	GetQuestionSet(ctx context.Context, id string) (*models.QuestionSet, error)
	ListAnswerSets(ctx context.Context, questionSetID string) ([]models.AnswerSet, error)
	CreateScore(ctx context.Context, sc *models.Score) error
	GetScore(ctx context.Context, id string) (*models.Score, error)
	GetScoreByQuestionSet(ctx context.Context, questionSetID string) (*models.Score, error)
	ListScoresByUser(ctx context.Context, userID string) ([]models.Score, error)
}

// AnswerComparator scores two answer lists against each other.
type AnswerComparator interface {
	Compare(ctx context.Context, in llm.CompareInput) (*llm.ComparisonResult, error)
}

// ScoreService computes each question set's score at most once.
type ScoreService struct {
	store ScoreStore
	cmp   AnswerComparator
	now   func() time.Time
}

func NewScoreService(store ScoreStore, cmp AnswerComparator) *ScoreService {
	return &ScoreService{store: store, cmp: cmp, now: time.Now}
}

// GetOrCompute returns the question set's score, computing and persisting it
// if this is the first call. The bool is true only when this call created it.
//
// The first two answer sets in submission order become participant 1 and 2.
// If a concurrent call persists first, its score is returned instead.
func (s *ScoreService) GetOrCompute(ctx context.Context, questionSetID string) (*models.Score, bool, error) {
	existing, err := s.store.GetScoreByQuestionSet(ctx, questionSetID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, err
	}

	qs, err := s.store.GetQuestionSet(ctx, questionSetID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, false, NewNotFoundError("question set not found")
	}
	if err != nil {
		return nil, false, err
	}

	answers, err := s.store.ListAnswerSets(ctx, questionSetID)
	if err != nil {
		return nil, false, err
	}
	if len(answers) < 2 {
		return nil, false, NewInsufficientDataError("both partners need to submit answers before comparison")
	}
	first, second := answers[0], answers[1]

	in := llm.CompareInput{
		Mood:            qs.Mood,
		InteractionType: qs.InteractionType,
		User1Name:       first.DisplayName,
		User2Name:       second.DisplayName,
		Questions:       qs.Prompts,
	}
	if in.User1Answers, err = answerTexts(first, len(qs.Prompts)); err != nil {
		return nil, false, err
	}
	if in.User2Answers, err = answerTexts(second, len(qs.Prompts)); err != nil {
		return nil, false, err
	}

	result, err := s.cmp.Compare(ctx, in)
	if err != nil {
		slog.Error("answer comparison failed", "question_set_id", questionSetID, "error", err)
		return nil, false, upstreamError("compare answers", err)
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return nil, false, err
	}

	sc := &models.Score{
		ID:              id,
		QuestionSetID:   questionSetID,
		User1ID:         first.UserID,
		User2ID:         second.UserID,
		Mood:            qs.Mood,
		Comparisons:     result.Comparisons,
		OverallScore:    result.OverallScore,
		OverallFeedback: result.OverallFeedback,
		TotalPoints:     result.TotalPoints,
		ComputedAt:      s.now().UTC(),
	}
	if err := s.store.CreateScore(ctx, sc); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			slog.Info("score already computed by a concurrent request", "question_set_id", questionSetID)
			winner, err := s.store.GetScoreByQuestionSet(ctx, questionSetID)
			if err != nil {
				return nil, false, err
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	slog.Info("score computed", "score_id", sc.ID, "question_set_id", questionSetID, "overall_score", sc.OverallScore)
	return sc, true, nil
}

// Get returns a score by ID.
func (s *ScoreService) Get(ctx context.Context, id string) (*models.Score, error) {
	sc, err := s.store.GetScore(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, NewNotFoundError("score not found")
	}
	return sc, err
}

// GetByQuestionSet returns a question set's score without computing it.
func (s *ScoreService) GetByQuestionSet(ctx context.Context, questionSetID string) (*models.Score, error) {
	sc, err := s.store.GetScoreByQuestionSet(ctx, questionSetID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, NewNotFoundError("score not found")
	}
	return sc, err
}

// ListByUser returns the scores a user participated in, most recent first.
func (s *ScoreService) ListByUser(ctx context.Context, userID string) ([]models.Score, error) {
	return s.store.ListScoresByUser(ctx, userID)
}

func answerTexts(a models.AnswerSet, n int) ([]string, error) {
	if len(a.Answers) != n {
		return nil, fmt.Errorf("answer set %s has %d answers for %d prompts", a.ID, len(a.Answers), n)
	}
	out := make([]string, n)
	for i, p := range a.Answers {
		out[i] = p.Answer
	}
	return out, nil
}
