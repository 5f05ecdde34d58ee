// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/valconnect/middleware"
	"github.com/danielhkuo/valconnect/models"
	"github.com/danielhkuo/valconnect/services"
)

type ScoreHandler struct {
	scores *services.ScoreService
	claims *services.ClaimService
}

func NewScoreHandler(scores *services.ScoreService, claims *services.ClaimService) *ScoreHandler {
	return &ScoreHandler{scores: scores, claims: claims}
}

// Compare handles POST /questions/{id}/compare. Returns 201 when this
// request computed the score and 200 when it already existed.
func (h *ScoreHandler) Compare(w http.ResponseWriter, r *http.Request) {
	sc, created, err := h.scores.GetOrCompute(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "compare answers", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	middleware.JSONResponse(w, status, sc)
}

// GetForQuestionSet handles GET /questions/{id}/score
func (h *ScoreHandler) GetForQuestionSet(w http.ResponseWriter, r *http.Request) {
	sc, err := h.scores.GetByQuestionSet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get score", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sc)
}

// Get handles GET /scores/{id}
func (h *ScoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.scores.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get score", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sc)
}

// Claim handles POST /scores/{id}/claim for the session user
func (h *ScoreHandler) Claim(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req models.ClaimRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	sc, err := h.claims.Claim(r.Context(), r.PathValue("id"), userID, req.PayoutAddress)
	if err != nil {
		writeServiceError(w, r, "claim reward", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sc)
}
