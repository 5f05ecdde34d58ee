// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/cliparse"
	"github.com/danielhkuo/valconnect/middleware"
	"github.com/danielhkuo/valconnect/models"
	"github.com/danielhkuo/valconnect/services"
)

// maxAnswerLength is counted in bytes after trimming.
const maxAnswerLength = 1000

type AnswerHandler struct {
	answers   *services.AnswerService
	questions *services.QuestionSetService
	cfg       cliparse.Config
}

func NewAnswerHandler(answers *services.AnswerService, questions *services.QuestionSetService, cfg cliparse.Config) *AnswerHandler {
	return &AnswerHandler{answers: answers, questions: questions, cfg: cfg}
}

// Submit handles POST /questions/{id}/answers. The participant is the
// session user; one answer is required per prompt, in prompt order.
func (h *AnswerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req models.SubmitAnswersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	qs, err := h.questions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "submit answers", err)
		return
	}

	if len(req.Answers) != len(qs.Prompts) {
		badRequest(w, fmt.Sprintf("expected %d answers, got %d", len(qs.Prompts), len(req.Answers)))
		return
	}

	// Prompts are stored verbatim; the client's copy of the question text is not trusted
	pairs := make([]models.AnswerPair, len(qs.Prompts))
	for i, prompt := range qs.Prompts {
		answer := strings.TrimSpace(req.Answers[i].Answer)
		if answer == "" {
			badRequest(w, fmt.Sprintf("answer %d is empty", i+1))
			return
		}
		if len(answer) > maxAnswerLength {
			badRequest(w, fmt.Sprintf("answer %d is too long", i+1))
			return
		}
		pairs[i] = models.AnswerPair{Question: prompt, Answer: answer}
	}

	in := services.SubmitAnswersInput{
		QuestionSetID: qs.ID,
		UserID:        userID,
		DisplayName:   strings.TrimSpace(req.DisplayName),
		Answers:       pairs,
	}
	if ip := middleware.GetClientIP(r); ip != "" {
		hash := auth.HashIP(ip, h.cfg.SessionSecret)
		in.IPHash = &hash
	}
	if ua := r.UserAgent(); ua != "" {
		in.UserAgent = &ua
	}

	if err := h.answers.Submit(r.Context(), in); err != nil {
		writeServiceError(w, r, "submit answers", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitAnswersResponse{
		Message: "Answers submitted successfully",
	})
}

// List handles GET /questions/{id}/answers
func (h *AnswerHandler) List(w http.ResponseWriter, r *http.Request) {
	sets, err := h.answers.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "list answers", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AnswersByQuestionResponse{
		AnswersCount: len(sets),
		Answers:      sets,
	})
}

// Get handles GET /questions/{id}/answers/{userId}
func (h *AnswerHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.answers.Get(r.Context(), r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, "get answers", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, a)
}

// PartnerAnswered handles GET /questions/{id}/partner-answered
func (h *AnswerHandler) PartnerAnswered(w http.ResponseWriter, r *http.Request) {
	has, err := h.answers.HasPartnerAnswered(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "check partner answers", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PartnerAnsweredResponse{HasAnswered: has})
}
