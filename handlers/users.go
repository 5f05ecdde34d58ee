// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/cliparse"
	"github.com/danielhkuo/valconnect/middleware"
	"github.com/danielhkuo/valconnect/models"
	"github.com/danielhkuo/valconnect/services"
)

type UserHandler struct {
	identity  *services.IdentityService
	questions *services.QuestionSetService
	scores    *services.ScoreService
	cfg       cliparse.Config
}

func NewUserHandler(identity *services.IdentityService, questions *services.QuestionSetService, scores *services.ScoreService, cfg cliparse.Config) *UserHandler {
	return &UserHandler{identity: identity, questions: questions, scores: scores, cfg: cfg}
}

// Register handles POST /users/register. The email comes from the identity
// token; a body email, if given, must match it.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	email, ok := verifiedEmail(w, r, h.cfg, req.Email)
	if !ok {
		return
	}

	u, err := h.identity.Register(r.Context(), email, req.DisplayName)
	if err != nil {
		writeServiceError(w, r, "register user", err)
		return
	}

	token, ok := h.issueToken(w, u)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Exists: true,
		User:   u,
		Token:  token,
	})
}

// CheckUser handles GET /users/check-user?email=
//
// Anyone may ask whether an email is registered. A session token is only
// issued when the request carries an identity token for that email.
func (h *UserHandler) CheckUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	_, hasIdentity := middleware.BearerToken(r)
	if hasIdentity {
		verified, ok := verifiedEmail(w, r, h.cfg, email)
		if !ok {
			return
		}
		email = verified
	}
	if email == "" {
		badRequest(w, "email query parameter is required")
		return
	}

	res, err := h.identity.Resolve(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, "resolve user", err)
		return
	}

	resp := models.AuthResponse{Exists: res.Exists, User: res.User}
	if res.Exists && hasIdentity {
		token, ok := h.issueToken(w, res.User)
		if !ok {
			return
		}
		resp.Token = token
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetStats handles GET /users/{id}/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	u, err := h.identity.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get user stats", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserStatsResponse{
		TotalPoints:         u.TotalPoints,
		PointsDisplay:       humanize.Comma(int64(u.TotalPoints)),
		QuestionSetsCreated: u.QuestionSetsCreated,
		MoneyEarned:         u.MoneyEarned,
	})
}

// ListQuestionSets handles GET /users/{id}/questions
func (h *UserHandler) ListQuestionSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.questions.ListByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "list question sets", err)
		return
	}

	summaries := make([]models.QuestionSetSummary, 0, len(sets))
	for _, qs := range sets {
		summaries = append(summaries, models.QuestionSetSummary{
			ID:              qs.ID,
			Mood:            qs.Mood,
			InteractionType: qs.InteractionType,
			PromptCount:     len(qs.Prompts),
			ShareSlug:       qs.ShareSlug,
			CreatedAt:       qs.CreatedAt,
			CreatedAgo:      humanize.Time(qs.CreatedAt),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListQuestionSetsResponse{QuestionSets: summaries})
}

// ListScores handles GET /users/{id}/scores
func (h *UserHandler) ListScores(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if _, err := h.identity.GetUser(r.Context(), userID); err != nil {
		writeServiceError(w, r, "list scores", err)
		return
	}

	scores, err := h.scores.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "list scores", err)
		return
	}
	if scores == nil {
		scores = []models.Score{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListScoresResponse{Scores: scores})
}

func (h *UserHandler) issueToken(w http.ResponseWriter, u *models.User) (string, bool) {
	token, err := auth.IssueSessionToken(u.ID, u.Email, h.cfg.SessionSecret, auth.SessionTTL)
	if err != nil {
		slog.Error("failed to issue session token", "user_id", u.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
		return "", false
	}
	return token, true
}
