// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/valconnect/cliparse"
	"github.com/danielhkuo/valconnect/db"
	"github.com/danielhkuo/valconnect/handlers"
	"github.com/danielhkuo/valconnect/llm"
	"github.com/danielhkuo/valconnect/middleware"
	"github.com/danielhkuo/valconnect/payout"
	"github.com/danielhkuo/valconnect/services"
)

// Collaborators are the external dependencies behind the services.
type Collaborators struct {
	Generator  services.QuestionGenerator
	Comparator services.AnswerComparator
	Moods      *llm.MoodCatalog
	Payer      payout.Payer
}

func NewRouter(store *db.Store, cfg cliparse.Config, c Collaborators) *http.ServeMux {
	mux := http.NewServeMux()

	// Services
	identity := services.NewIdentityService(store)
	questions := services.NewQuestionSetService(store, c.Generator, cfg.SlugSalt)
	answers := services.NewAnswerService(store)
	scores := services.NewScoreService(store, c.Comparator)
	claims := services.NewClaimService(store, c.Payer, cfg.RewardAmount)

	// Handlers
	userHandler := handlers.NewUserHandler(identity, questions, scores, cfg)
	questionHandler := handlers.NewQuestionHandler(questions, c.Moods, cfg)
	answerHandler := handlers.NewAnswerHandler(answers, questions, cfg)
	scoreHandler := handlers.NewScoreHandler(scores, claims)

	withSession := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithSession(cfg.SessionSecret, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /moods", middleware.WithLogging(questionHandler.ListMoods))

	// Users
	mux.HandleFunc("POST /users/register", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("GET /users/check-user", middleware.WithLogging(userHandler.CheckUser))
	mux.HandleFunc("GET /users/{id}/stats", middleware.WithLogging(userHandler.GetStats))
	mux.HandleFunc("GET /users/{id}/questions", middleware.WithLogging(userHandler.ListQuestionSets))
	mux.HandleFunc("GET /users/{id}/scores", middleware.WithLogging(userHandler.ListScores))

	// Question sets
	mux.HandleFunc("POST /questions/generate", withSession(questionHandler.Generate))
	mux.HandleFunc("GET /questions/{id}", middleware.WithLogging(questionHandler.Get))
	mux.HandleFunc("GET /share/{slug}", middleware.WithLogging(questionHandler.GetByShareSlug))

	// Answers
	mux.HandleFunc("POST /questions/{id}/answers", withSession(answerHandler.Submit))
	mux.HandleFunc("GET /questions/{id}/answers", middleware.WithLogging(answerHandler.List))
	mux.HandleFunc("GET /questions/{id}/answers/{userId}", middleware.WithLogging(answerHandler.Get))
	mux.HandleFunc("GET /questions/{id}/partner-answered", middleware.WithLogging(answerHandler.PartnerAnswered))

	// Scores and claims
	mux.HandleFunc("POST /questions/{id}/compare", middleware.WithLogging(scoreHandler.Compare))
	mux.HandleFunc("GET /questions/{id}/score", middleware.WithLogging(scoreHandler.GetForQuestionSet))
	mux.HandleFunc("GET /scores/{id}", middleware.WithLogging(scoreHandler.Get))
	mux.HandleFunc("POST /scores/{id}/claim", withSession(scoreHandler.Claim))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("valconnect API v1"))
	})

	return mux
}
