// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/llm"
	"github.com/danielhkuo/valconnect/models"
	"github.com/danielhkuo/valconnect/testutil"
)

func TestListMoods(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/moods", nil)
	w := httptest.NewRecorder()

	env.questions.ListMoods(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var moods []models.MoodResponse
	testutil.AssertJSON(t, w, &moods)
	if len(moods) != 5 {
		t.Fatalf("Expected 5 moods, got %d", len(moods))
	}
	for _, m := range moods {
		if m.Label == "" || m.Description == "" {
			t.Errorf("Mood missing label or description: %+v", m)
		}
	}
}

func TestGenerateQuestions(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateTestUser(t, env.store, "alice@example.com", "Alice")

	tests := []struct {
		name           string
		userID         string
		body           any
		genErr         error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "conversation",
			userID:         alice.ID,
			body:           models.GenerateQuestionsRequest{Mood: "Deep/Intimate", InteractionType: "conversation", Context: "anniversary"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "game",
			userID:         alice.ID,
			body:           models.GenerateQuestionsRequest{Mood: "Casual/Playful", InteractionType: "game"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad interaction type",
			userID:         alice.ID,
			body:           models.GenerateQuestionsRequest{Mood: "Casual/Playful", InteractionType: "trivia"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid",
		},
		{
			name:           "context too long",
			userID:         alice.ID,
			body:           models.GenerateQuestionsRequest{Mood: "Casual/Playful", InteractionType: "game", Context: strings.Repeat("x", 501)},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid",
		},
		{
			name:           "session user no longer exists",
			userID:         "deleted-user",
			body:           models.GenerateQuestionsRequest{Mood: "Casual/Playful", InteractionType: "game"},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
		},
		{
			name:           "malformed model output",
			userID:         alice.ID,
			body:           models.GenerateQuestionsRequest{Mood: "Casual/Playful", InteractionType: "game"},
			genErr:         fmt.Errorf("%w: no questions", llm.ErrMalformedResponse),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "upstream_format",
		},
		{
			name:           "model unavailable",
			userID:         alice.ID,
			body:           models.GenerateQuestionsRequest{Mood: "Casual/Playful", InteractionType: "game"},
			genErr:         fmt.Errorf("%w: status 500", llm.ErrUnavailable),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "upstream_unavailable",
		},
	}

	created := 0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.gen.Err = tt.genErr
			req := asUser(testutil.MakeRequest("POST", "/questions/generate", tt.body, nil), tt.userID)
			w := httptest.NewRecorder()

			env.questions.Generate(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusCreated {
				testutil.AssertErrorCode(t, w, tt.expectedCode)
				return
			}
			created++

			var resp models.GenerateQuestionsResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.ShareSlug != auth.GenerateShareSlug(resp.QuestionSetID, env.cfg.SlugSalt) {
				t.Errorf("Unexpected share slug %s", resp.ShareSlug)
			}
			if want := env.cfg.ShareBaseURL + "/share/" + resp.ShareSlug; resp.ShareURL != want {
				t.Errorf("Expected share URL %s, got %s", want, resp.ShareURL)
			}
		})
	}
	env.gen.Err = nil

	stats := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/"+alice.ID+"/stats", nil)
	req.SetPathValue("id", alice.ID)
	env.users.GetStats(stats, req)
	var resp models.UserStatsResponse
	testutil.AssertJSON(t, stats, &resp)
	if resp.QuestionSetsCreated != created {
		t.Errorf("Expected %d question sets created, got %d", created, resp.QuestionSetsCreated)
	}
}

func TestGenerateRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	req := testutil.MakeRequest("POST", "/questions/generate", models.GenerateQuestionsRequest{Mood: "Casual/Playful", InteractionType: "game"}, nil)
	w := httptest.NewRecorder()

	env.questions.Generate(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	if env.gen.Calls != 0 {
		t.Error("Generator should not be called without a session")
	}
}

func TestGetQuestionSet(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateTestUser(t, env.store, "alice@example.com", "Alice")
	qs := testutil.CreateTestQuestionSet(t, env.store, env.cfg, alice.ID)

	t.Run("by ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/questions/"+qs.ID, nil)
		req.SetPathValue("id", qs.ID)
		w := httptest.NewRecorder()

		env.questions.Get(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var got models.QuestionSet
		testutil.AssertJSON(t, w, &got)
		if len(got.Prompts) != len(testutil.TestPrompts) || got.Prompts[len(got.Prompts)-1] != llm.ClosingQuestion {
			t.Errorf("Unexpected prompts: %v", got.Prompts)
		}
	})

	t.Run("by share slug", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/share/"+qs.ShareSlug, nil)
		req.SetPathValue("slug", qs.ShareSlug)
		w := httptest.NewRecorder()

		env.questions.GetByShareSlug(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var got models.QuestionSet
		testutil.AssertJSON(t, w, &got)
		if got.ID != qs.ID {
			t.Errorf("Expected question set %s, got %s", qs.ID, got.ID)
		}
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/questions/nope", nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		env.questions.Get(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
