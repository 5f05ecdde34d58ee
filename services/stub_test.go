// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"sync"

	"github.com/danielhkuo/valconnect/db"
	"github.com/danielhkuo/valconnect/llm"
	"github.com/danielhkuo/valconnect/models"
	"github.com/danielhkuo/valconnect/payout"
)

// stubStore is an in-memory store with the same sentinel errors as db.Store.
type stubStore struct {
	mu           sync.Mutex
	users        map[string]*models.User
	questionSets map[string]*models.QuestionSet
	answerSets   []models.AnswerSet
	scores       map[string]*models.Score
	claims       map[string]*models.RewardClaim

	failCreateScore error // returned once by CreateScore, then cleared
}

func newStubStore() *stubStore {
	return &stubStore{
		users:        map[string]*models.User{},
		questionSets: map[string]*models.QuestionSet{},
		scores:       map[string]*models.Score{},
		claims:       map[string]*models.RewardClaim{},
	}
}

func (s *stubStore) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return db.ErrDuplicate
		}
	}
	copy := *u
	s.users[u.ID] = &copy
	return nil
}

func (s *stubStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, db.ErrNotFound
}

func (s *stubStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *stubStore) CreateQuestionSet(ctx context.Context, qs *models.QuestionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[qs.UserID]
	if !ok {
		return db.ErrNotFound
	}
	u.QuestionSetsCreated++
	copy := *qs
	s.questionSets[qs.ID] = &copy
	return nil
}

func (s *stubStore) GetQuestionSet(ctx context.Context, id string) (*models.QuestionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qs, ok := s.questionSets[id]; ok {
		copy := *qs
		return &copy, nil
	}
	return nil, db.ErrNotFound
}

func (s *stubStore) GetQuestionSetBySlug(ctx context.Context, slug string) (*models.QuestionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, qs := range s.questionSets {
		if qs.ShareSlug == slug {
			copy := *qs
			return &copy, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *stubStore) ListQuestionSetsByUser(ctx context.Context, userID string) ([]models.QuestionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.QuestionSet{}
	for _, qs := range s.questionSets {
		if qs.UserID == userID {
			out = append(out, *qs)
		}
	}
	return out, nil
}

func (s *stubStore) CreateAnswerSet(ctx context.Context, a *models.AnswerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.answerSets {
		if existing.QuestionSetID == a.QuestionSetID && existing.UserID == a.UserID {
			return db.ErrDuplicate
		}
	}
	s.answerSets = append(s.answerSets, *a)
	return nil
}

func (s *stubStore) GetAnswerSet(ctx context.Context, questionSetID, userID string) (*models.AnswerSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.answerSets {
		if a.QuestionSetID == questionSetID && a.UserID == userID {
			copy := a
			return &copy, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *stubStore) ListAnswerSets(ctx context.Context, questionSetID string) ([]models.AnswerSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AnswerSet{}
	for _, a := range s.answerSets {
		if a.QuestionSetID == questionSetID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubStore) CountAnswerSets(ctx context.Context, questionSetID string) (int, error) {
	sets, _ := s.ListAnswerSets(ctx, questionSetID)
	return len(sets), nil
}

func (s *stubStore) CreateScore(ctx context.Context, sc *models.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failCreateScore; err != nil {
		s.failCreateScore = nil
		return err
	}
	for _, existing := range s.scores {
		if existing.QuestionSetID == sc.QuestionSetID {
			return db.ErrDuplicate
		}
	}
	copy := *sc
	s.scores[sc.ID] = &copy
	return nil
}

func (s *stubStore) GetScore(ctx context.Context, id string) (*models.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.scores[id]; ok {
		copy := *sc
		copy.FullyClaimed = copy.User1Claimed && copy.User2Claimed
		return &copy, nil
	}
	return nil, db.ErrNotFound
}

func (s *stubStore) GetScoreByQuestionSet(ctx context.Context, questionSetID string) (*models.Score, error) {
	s.mu.Lock()
	var id string
	for _, sc := range s.scores {
		if sc.QuestionSetID == questionSetID {
			id = sc.ID
		}
	}
	s.mu.Unlock()
	if id == "" {
		return nil, db.ErrNotFound
	}
	return s.GetScore(ctx, id)
}

func (s *stubStore) ListScoresByUser(ctx context.Context, userID string) ([]models.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Score{}
	for _, sc := range s.scores {
		if sc.User1ID == userID || sc.User2ID == userID {
			out = append(out, *sc)
		}
	}
	return out, nil
}

func (s *stubStore) ClaimReward(ctx context.Context, claim *models.RewardClaim, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scores[claim.ScoreID]
	if !ok {
		return db.ErrAlreadyClaimed
	}
	switch {
	case slot == 1 && sc.User1ID == claim.UserID && !sc.User1Claimed:
		sc.User1Claimed = true
	case slot == 2 && sc.User2ID == claim.UserID && !sc.User2Claimed:
		sc.User2Claimed = true
	default:
		return db.ErrAlreadyClaimed
	}
	u, ok := s.users[claim.UserID]
	if !ok {
		return db.ErrNotFound
	}
	u.TotalPoints += claim.Points
	u.MoneyEarned = u.MoneyEarned.Add(claim.Amount)
	copy := *claim
	s.claims[claim.ID] = &copy
	return nil
}

func (s *stubStore) UpdateClaimPayout(ctx context.Context, claimID, status string, ref, payoutErr *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[claimID]
	if !ok {
		return db.ErrNotFound
	}
	c.PayoutStatus, c.PayoutRef, c.PayoutError = status, ref, payoutErr
	return nil
}

// claimFor returns the ledger entry for a user on a score, or nil
func (s *stubStore) claimFor(scoreID, userID string) *models.RewardClaim {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.claims {
		if c.ScoreID == scoreID && c.UserID == userID {
			copy := *c
			return &copy
		}
	}
	return nil
}

type stubGenerator struct {
	out   *llm.GeneratedQuestions
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, mood, interactionType, extra string) (*llm.GeneratedQuestions, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	out := *g.out
	return &out, nil
}

type stubComparator struct {
	mu    sync.Mutex
	out   *llm.ComparisonResult
	err   error
	calls int
	last  llm.CompareInput
}

func (c *stubComparator) Compare(ctx context.Context, in llm.CompareInput) (*llm.ComparisonResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.last = in
	if c.err != nil {
		return nil, c.err
	}
	out := *c.out
	return &out, nil
}

type stubPayer struct {
	receipt   *payout.Receipt
	err       error
	transfers []payout.Transfer
}

func (p *stubPayer) Pay(ctx context.Context, t payout.Transfer) (*payout.Receipt, error) {
	p.transfers = append(p.transfers, t)
	if p.err != nil {
		return nil, p.err
	}
	return p.receipt, nil
}

var errBoom = errors.New("boom")
