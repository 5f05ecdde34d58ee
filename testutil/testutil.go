// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/cliparse"
	"github.com/danielhkuo/valconnect/db"
	"github.com/danielhkuo/valconnect/llm"
	"github.com/danielhkuo/valconnect/models"
	"github.com/danielhkuo/valconnect/payout"
)

// TestPrompts are the prompts FakeGenerator returns by default.
var TestPrompts = []string{
	"What would our perfect lazy Sunday look like?",
	"Which song reminds you of us?",
	"What's the bravest thing you've done for love?",
	"Where should our next trip be?",
	llm.ClosingQuestion,
}

// SetupTestDB creates a fresh SQLite database file with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, db.SQLiteDSN(filepath.Join(t.TempDir(), "valconnect_test.db")))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a Store over a fresh test database.
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           9801,
		DatabaseURL:    "file:test.db",
		DatabaseType:   db.TypeSQLite,
		SessionSecret:  "test-session-secret",
		IdentitySecret: "test-identity-secret",
		IdentityIssuer: "https://id.test",
		SlugSalt:       "test-slug-salt",
		ShareBaseURL:   "http://localhost:5173",
		LLMBaseURL:     "http://llm.invalid/v1",
		LLMAPIKey:      "test-key",
		LLMModel:       "test-model",
		RewardContract: cliparse.DefaultRewardContract,
		RewardAmount:   decimal.NewFromInt(100),
	}
}

// FakeGenerator returns fixed prompts, or Err when set.
type FakeGenerator struct {
	mu    sync.Mutex
	Err   error
	Calls int
}

func (g *FakeGenerator) Generate(ctx context.Context, mood, interactionType, extra string) (*llm.GeneratedQuestions, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	if g.Err != nil {
		return nil, g.Err
	}
	out := &llm.GeneratedQuestions{
		Mood:            mood,
		MoodDescription: "test mood",
		Questions:       append([]string(nil), TestPrompts...),
	}
	if interactionType == models.InteractionGame {
		for range TestPrompts {
			out.Options = append(out.Options, []string{"A", "B", "C", "D"})
		}
	}
	return out, nil
}

// FakeComparator returns a fixed overall score with one comparison per
// question, or Err when set.
type FakeComparator struct {
	mu      sync.Mutex
	Overall int
	Points  int
	Err     error
	Calls   int
}

func (c *FakeComparator) Compare(ctx context.Context, in llm.CompareInput) (*llm.ComparisonResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}

	res := &llm.ComparisonResult{
		OverallScore:    c.Overall,
		OverallFeedback: "test feedback",
		TotalPoints:     c.Points,
	}
	for i, q := range in.Questions {
		res.Comparisons = append(res.Comparisons, models.Comparison{
			QuestionIndex: i,
			Question:      q,
			User1Answer:   in.User1Answers[i],
			User2Answer:   in.User2Answers[i],
			User1Name:     in.User1Name,
			User2Name:     in.User2Name,
			Compatibility: c.Overall,
			Explanation:   "test explanation",
		})
	}
	return res, nil
}

// FakePayer records transfers and returns a sent receipt, or Err when set.
type FakePayer struct {
	mu        sync.Mutex
	Err       error
	Transfers []payout.Transfer
}

func (p *FakePayer) Pay(ctx context.Context, t payout.Transfer) (*payout.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Transfers = append(p.Transfers, t)
	if p.Err != nil {
		return nil, p.Err
	}
	return &payout.Receipt{Status: models.PayoutSent, Ref: "0xtest" + t.ClaimID[:8]}, nil
}

// CreateTestUser inserts a user and returns it
func CreateTestUser(t *testing.T, store *db.Store, email, displayName string) *models.User {
	t.Helper()

	id, _ := auth.GenerateID(16)
	u := &models.User{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		MoneyEarned: decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// SessionHeaders returns an Authorization header for the user
func SessionHeaders(t *testing.T, cfg cliparse.Config, u *models.User) map[string]string {
	t.Helper()

	tok, err := auth.IssueSessionToken(u.ID, u.Email, cfg.SessionSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue session token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + tok}
}

// IdentityToken signs a verified-email assertion the way the identity
// provider would
func IdentityToken(t *testing.T, cfg cliparse.Config, email string) string {
	t.Helper()

	claims := auth.IdentityClaims{
		Email:         email,
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.IdentityIssuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.IdentitySecret))
	if err != nil {
		t.Fatalf("Failed to sign identity token: %v", err)
	}
	return tok
}

// IdentityHeaders returns an Authorization header carrying an identity token
func IdentityHeaders(t *testing.T, cfg cliparse.Config, email string) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + IdentityToken(t, cfg, email)}
}

// CreateTestQuestionSet inserts a conversation question set with TestPrompts
func CreateTestQuestionSet(t *testing.T, store *db.Store, cfg cliparse.Config, userID string) *models.QuestionSet {
	t.Helper()

	id, _ := auth.GenerateID(16)
	qs := &models.QuestionSet{
		ID:              id,
		UserID:          userID,
		Mood:            "Flirty/Romantic",
		InteractionType: models.InteractionConversation,
		MoodDescription: "test mood",
		Prompts:         append([]string(nil), TestPrompts...),
		ShareSlug:       auth.GenerateShareSlug(id, cfg.SlugSalt),
		CreatedAt:       time.Now().UTC(),
	}
	if err := store.CreateQuestionSet(context.Background(), qs); err != nil {
		t.Fatalf("Failed to create test question set: %v", err)
	}
	return qs
}

// AnswerPairs answers every prompt of qs with the same text
func AnswerPairs(qs *models.QuestionSet, answer string) []models.AnswerPair {
	pairs := make([]models.AnswerPair, len(qs.Prompts))
	for i, q := range qs.Prompts {
		pairs[i] = models.AnswerPair{Question: q, Answer: answer}
	}
	return pairs
}

// SubmitTestAnswers inserts an answer set for the user. submittedAt orders
// participants.
func SubmitTestAnswers(t *testing.T, store *db.Store, qs *models.QuestionSet, u *models.User, answer string, submittedAt time.Time) *models.AnswerSet {
	t.Helper()

	id, _ := auth.GenerateID(16)
	a := &models.AnswerSet{
		ID:            id,
		QuestionSetID: qs.ID,
		UserID:        u.ID,
		DisplayName:   u.DisplayName,
		Answers:       AnswerPairs(qs, answer),
		SubmittedAt:   submittedAt.UTC(),
	}
	if err := store.CreateAnswerSet(context.Background(), a); err != nil {
		t.Fatalf("Failed to create test answer set: %v", err)
	}
	return a
}

// CreateTestScore inserts a score for two participants of qs
func CreateTestScore(t *testing.T, store *db.Store, qs *models.QuestionSet, user1, user2 *models.User, overall, points int) *models.Score {
	t.Helper()

	id, _ := auth.GenerateID(16)
	sc := &models.Score{
		ID:              id,
		QuestionSetID:   qs.ID,
		User1ID:         user1.ID,
		User2ID:         user2.ID,
		Mood:            qs.Mood,
		Comparisons:     []models.Comparison{},
		OverallScore:    overall,
		OverallFeedback: "test feedback",
		TotalPoints:     points,
		ComputedAt:      time.Now().UTC(),
	}
	if err := store.CreateScore(context.Background(), sc); err != nil {
		t.Fatalf("Failed to create test score: %v", err)
	}
	return sc
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode decodes an error body and checks its code
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var resp models.ErrorResponse
	AssertJSON(t, w, &resp)
	if resp.Code != code {
		t.Errorf("Expected error code '%s', got '%s' (message: %s)", code, resp.Code, resp.Message)
	}
}
