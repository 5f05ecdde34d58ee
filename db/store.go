// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/valconnect/models"
)

// Store is the repository for users, question sets, answer sets, scores and
// reward claims. Queries use $N placeholders, which both PostgreSQL and
// modernc.org/sqlite accept.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Users

const userColumns = `id, email, display_name, total_points, question_sets_created, money_earned, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.TotalPoints,
		&u.QuestionSetsCreated, &u.MoneyEarned, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user. Returns ErrDuplicate if the email is taken.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, email, display_name, total_points, question_sets_created, money_earned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Email, u.DisplayName, u.TotalPoints, u.QuestionSetsCreated, u.MoneyEarned, u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Question sets

const questionSetColumns = `id, user_id, mood, interaction_type, mood_description, context, prompts, options, share_slug, created_at`

func scanQuestionSet(row rowScanner) (*models.QuestionSet, error) {
	var qs models.QuestionSet
	var promptsJSON string
	var optionsJSON sql.NullString
	err := row.Scan(&qs.ID, &qs.UserID, &qs.Mood, &qs.InteractionType, &qs.MoodDescription,
		&qs.Context, &promptsJSON, &optionsJSON, &qs.ShareSlug, &qs.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(promptsJSON), &qs.Prompts); err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}
	if optionsJSON.Valid && optionsJSON.String != "" {
		if err := json.Unmarshal([]byte(optionsJSON.String), &qs.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
	}
	return &qs, nil
}

// CreateQuestionSet persists the question set and increments the creator's
// question set counter in one transaction. Returns ErrNotFound if the creator
// does not exist.
func (s *Store) CreateQuestionSet(ctx context.Context, qs *models.QuestionSet) error {
	promptsJSON, err := json.Marshal(qs.Prompts)
	if err != nil {
		return fmt.Errorf("encode prompts: %w", err)
	}
	var optionsJSON sql.NullString
	if len(qs.Options) > 0 {
		b, err := json.Marshal(qs.Options)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}
		optionsJSON = sql.NullString{String: string(b), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE app_user SET question_sets_created = question_sets_created + 1 WHERE id = $1
	`, qs.UserID)
	if err != nil {
		return fmt.Errorf("increment question sets created: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO question_set (id, user_id, mood, interaction_type, mood_description, context, prompts, options, share_slug, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, qs.ID, qs.UserID, qs.Mood, qs.InteractionType, qs.MoodDescription, qs.Context,
		string(promptsJSON), optionsJSON, qs.ShareSlug, qs.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert question set: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit question set: %w", err)
	}
	return nil
}

func (s *Store) GetQuestionSet(ctx context.Context, id string) (*models.QuestionSet, error) {
	qs, err := scanQuestionSet(s.db.QueryRowContext(ctx,
		`SELECT `+questionSetColumns+` FROM question_set WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question set: %w", err)
	}
	return qs, nil
}

func (s *Store) GetQuestionSetBySlug(ctx context.Context, slug string) (*models.QuestionSet, error) {
	qs, err := scanQuestionSet(s.db.QueryRowContext(ctx,
		`SELECT `+questionSetColumns+` FROM question_set WHERE share_slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question set by slug: %w", err)
	}
	return qs, nil
}

// ListQuestionSetsByUser returns the user's question sets, most recent first.
func (s *Store) ListQuestionSetsByUser(ctx context.Context, userID string) ([]models.QuestionSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+questionSetColumns+`
		FROM question_set
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list question sets: %w", err)
	}
	defer rows.Close()

	sets := []models.QuestionSet{}
	for rows.Next() {
		qs, err := scanQuestionSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question set: %w", err)
		}
		sets = append(sets, *qs)
	}
	return sets, rows.Err()
}

// Answer sets

const answerSetColumns = `id, question_set_id, user_id, display_name, answers, ip_hash, user_agent, submitted_at`

func scanAnswerSet(row rowScanner) (*models.AnswerSet, error) {
	var a models.AnswerSet
	var answersJSON string
	err := row.Scan(&a.ID, &a.QuestionSetID, &a.UserID, &a.DisplayName, &answersJSON,
		&a.IPHash, &a.UserAgent, &a.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &a.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return &a, nil
}

// CreateAnswerSet inserts an answer set. Returns ErrDuplicate if the user has
// already answered this question set.
func (s *Store) CreateAnswerSet(ctx context.Context, a *models.AnswerSet) error {
	answersJSON, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO answer_set (id, question_set_id, user_id, display_name, answers, ip_hash, user_agent, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, a.QuestionSetID, a.UserID, a.DisplayName, string(answersJSON), a.IPHash, a.UserAgent, a.SubmittedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert answer set: %w", err)
	}
	return nil
}

func (s *Store) GetAnswerSet(ctx context.Context, questionSetID, userID string) (*models.AnswerSet, error) {
	a, err := scanAnswerSet(s.db.QueryRowContext(ctx, `
		SELECT `+answerSetColumns+`
		FROM answer_set
		WHERE question_set_id = $1 AND user_id = $2
	`, questionSetID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get answer set: %w", err)
	}
	return a, nil
}

// ListAnswerSets returns a question set's answer sets in submission order.
func (s *Store) ListAnswerSets(ctx context.Context, questionSetID string) ([]models.AnswerSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+answerSetColumns+`
		FROM answer_set
		WHERE question_set_id = $1
		ORDER BY submitted_at ASC, id ASC
	`, questionSetID)
	if err != nil {
		return nil, fmt.Errorf("list answer sets: %w", err)
	}
	defer rows.Close()

	sets := []models.AnswerSet{}
	for rows.Next() {
		a, err := scanAnswerSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan answer set: %w", err)
		}
		sets = append(sets, *a)
	}
	return sets, rows.Err()
}

func (s *Store) CountAnswerSets(ctx context.Context, questionSetID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM answer_set WHERE question_set_id = $1
	`, questionSetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count answer sets: %w", err)
	}
	return count, nil
}

// Scores

const scoreColumns = `id, question_set_id, user1_id, user2_id, mood, comparisons, overall_score,
	overall_feedback, total_points, user1_claimed, user2_claimed, computed_at`

func scanScore(row rowScanner) (*models.Score, error) {
	var sc models.Score
	var comparisonsJSON string
	err := row.Scan(&sc.ID, &sc.QuestionSetID, &sc.User1ID, &sc.User2ID, &sc.Mood, &comparisonsJSON,
		&sc.OverallScore, &sc.OverallFeedback, &sc.TotalPoints, &sc.User1Claimed, &sc.User2Claimed,
		&sc.ComputedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(comparisonsJSON), &sc.Comparisons); err != nil {
		return nil, fmt.Errorf("decode comparisons: %w", err)
	}
	sc.FullyClaimed = sc.User1Claimed && sc.User2Claimed
	return &sc, nil
}

// CreateScore inserts a score. Returns ErrDuplicate if the question set has
// already been scored.
func (s *Store) CreateScore(ctx context.Context, sc *models.Score) error {
	comparisonsJSON, err := json.Marshal(sc.Comparisons)
	if err != nil {
		return fmt.Errorf("encode comparisons: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO score (id, question_set_id, user1_id, user2_id, mood, comparisons, overall_score,
		                   overall_feedback, total_points, user1_claimed, user2_claimed, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, sc.ID, sc.QuestionSetID, sc.User1ID, sc.User2ID, sc.Mood, string(comparisonsJSON),
		sc.OverallScore, sc.OverallFeedback, sc.TotalPoints, sc.User1Claimed, sc.User2Claimed, sc.ComputedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *Store) GetScore(ctx context.Context, id string) (*models.Score, error) {
	sc, err := scanScore(s.db.QueryRowContext(ctx,
		`SELECT `+scoreColumns+` FROM score WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get score: %w", err)
	}
	return sc, nil
}

func (s *Store) GetScoreByQuestionSet(ctx context.Context, questionSetID string) (*models.Score, error) {
	sc, err := scanScore(s.db.QueryRowContext(ctx,
		`SELECT `+scoreColumns+` FROM score WHERE question_set_id = $1`, questionSetID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get score by question set: %w", err)
	}
	return sc, nil
}

// ListScoresByUser returns scores the user participated in, most recent first.
func (s *Store) ListScoresByUser(ctx context.Context, userID string) ([]models.Score, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+scoreColumns+`
		FROM score
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY computed_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	scores := []models.Score{}
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, *sc)
	}
	return scores, rows.Err()
}

// Reward claims

// ClaimReward flips the participant's claim flag, credits the user's points
// and earnings, and records a pending ledger entry in one transaction.
// slot is 1 or 2. Returns ErrAlreadyClaimed if the flag was already set.
func (s *Store) ClaimReward(ctx context.Context, claim *models.RewardClaim, slot int) error {
	var flipQuery string
	switch slot {
	case 1:
		flipQuery = `UPDATE score SET user1_claimed = TRUE WHERE id = $1 AND user1_id = $2 AND user1_claimed = FALSE`
	case 2:
		flipQuery = `UPDATE score SET user2_claimed = TRUE WHERE id = $1 AND user2_id = $2 AND user2_claimed = FALSE`
	default:
		return fmt.Errorf("invalid participant slot %d", slot)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, flipQuery, claim.ScoreID, claim.UserID)
	if err != nil {
		return fmt.Errorf("set claim flag: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrAlreadyClaimed
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE app_user
		SET total_points = total_points + $1, money_earned = money_earned + $2
		WHERE id = $3
	`, claim.Points, claim.Amount, claim.UserID)
	if err != nil {
		return fmt.Errorf("credit user: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reward_claim (id, score_id, user_id, payout_address, points, amount, payout_status, claimed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, claim.ID, claim.ScoreID, claim.UserID, claim.PayoutAddress, claim.Points, claim.Amount,
		claim.PayoutStatus, claim.ClaimedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyClaimed
	}
	if err != nil {
		return fmt.Errorf("insert reward claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit claim: %w", err)
	}
	return nil
}

// UpdateClaimPayout records the outcome of the payout call for a claim.
func (s *Store) UpdateClaimPayout(ctx context.Context, claimID, status string, ref, payoutErr *string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reward_claim SET payout_status = $1, payout_ref = $2, payout_error = $3 WHERE id = $4
	`, status, ref, payoutErr, claimID)
	if err != nil {
		return fmt.Errorf("update claim payout: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetRewardClaim(ctx context.Context, scoreID, userID string) (*models.RewardClaim, error) {
	var c models.RewardClaim
	var amount decimal.Decimal
	err := s.db.QueryRowContext(ctx, `
		SELECT id, score_id, user_id, payout_address, points, amount, payout_status, payout_ref, payout_error, claimed_at
		FROM reward_claim
		WHERE score_id = $1 AND user_id = $2
	`, scoreID, userID).Scan(&c.ID, &c.ScoreID, &c.UserID, &c.PayoutAddress, &c.Points, &amount,
		&c.PayoutStatus, &c.PayoutRef, &c.PayoutError, &c.ClaimedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reward claim: %w", err)
	}
	c.Amount = amount
	return &c, nil
}
