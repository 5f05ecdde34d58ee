// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/valconnect/cliparse"
	"github.com/danielhkuo/valconnect/llm"
	"github.com/danielhkuo/valconnect/middleware"
	"github.com/danielhkuo/valconnect/models"
	"github.com/danielhkuo/valconnect/services"
)

type QuestionHandler struct {
	questions *services.QuestionSetService
	moods     *llm.MoodCatalog
	cfg       cliparse.Config
}

func NewQuestionHandler(questions *services.QuestionSetService, moods *llm.MoodCatalog, cfg cliparse.Config) *QuestionHandler {
	return &QuestionHandler{questions: questions, moods: moods, cfg: cfg}
}

// ListMoods handles GET /moods
func (h *QuestionHandler) ListMoods(w http.ResponseWriter, r *http.Request) {
	all := h.moods.All()
	resp := make([]models.MoodResponse, 0, len(all))
	for _, m := range all {
		resp = append(resp, models.MoodResponse{Label: m.Label, Description: m.Description})
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Generate handles POST /questions/generate. The creator is the session user.
func (h *QuestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req models.GenerateQuestionsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	id, err := h.questions.Create(r.Context(), userID, req.Mood, req.InteractionType, req.Context)
	if err != nil {
		writeServiceError(w, r, "generate questions", err)
		return
	}

	qs, err := h.questions.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "load question set", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.GenerateQuestionsResponse{
		QuestionSetID: qs.ID,
		ShareSlug:     qs.ShareSlug,
		ShareURL:      h.cfg.ShareBaseURL + "/share/" + qs.ShareSlug,
	})
}

// Get handles GET /questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	qs, err := h.questions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get question set", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, qs)
}

// GetByShareSlug handles GET /share/{slug}
func (h *QuestionHandler) GetByShareSlug(w http.ResponseWriter, r *http.Request) {
	qs, err := h.questions.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, "get shared question set", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, qs)
}
