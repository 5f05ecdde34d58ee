// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/cliparse"
	"github.com/danielhkuo/valconnect/middleware"
	"github.com/danielhkuo/valconnect/services"
)

// statusForCode maps service error codes to HTTP statuses
var statusForCode = map[services.ErrorCode]int{
	services.ErrorNotFound:            http.StatusNotFound,
	services.ErrorConflict:            http.StatusConflict,
	services.ErrorInsufficientData:    http.StatusConflict,
	services.ErrorAlreadyClaimed:      http.StatusConflict,
	services.ErrorInvalidParticipant:  http.StatusForbidden,
	services.ErrorBelowThreshold:      http.StatusUnprocessableEntity,
	services.ErrorInvalid:             http.StatusBadRequest,
	services.ErrorUpstreamFormat:      http.StatusBadGateway,
	services.ErrorUpstreamUnavailable: http.StatusBadGateway,
}

// writeServiceError writes the response for an error returned by a service.
// Anything without a known code is logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if svcErr, ok := services.AsServiceError(err); ok {
		if status, known := statusForCode[svcErr.Code]; known {
			middleware.CodedErrorResponse(w, status, string(svcErr.Code), svcErr.Message)
			return
		}
	}

	slog.Error(op+" failed", "method", r.Method, "path", r.URL.Path, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
}

// badRequest writes a 400 with the invalid code
func badRequest(w http.ResponseWriter, message string) {
	middleware.CodedErrorResponse(w, http.StatusBadRequest, string(services.ErrorInvalid), message)
}

// sessionUser returns the authenticated user ID, writing 401 if absent
func sessionUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "missing session")
	}
	return userID, ok
}

// verifiedEmail checks the identity token on the request and returns the
// email it vouches for. When claimed is non-empty it must be that email.
// Writes 401 or 403 on failure.
func verifiedEmail(w http.ResponseWriter, r *http.Request, cfg cliparse.Config, claimed string) (string, bool) {
	tok, ok := middleware.BearerToken(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "missing identity token")
		return "", false
	}

	claims, err := auth.ParseIdentityToken(tok, cfg.IdentitySecret, cfg.IdentityIssuer)
	if err != nil {
		slog.Warn("rejected identity token", "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid identity token")
		return "", false
	}

	claimed = strings.TrimSpace(claimed)
	if claimed != "" && !strings.EqualFold(claimed, claims.Email) {
		middleware.ErrorResponse(w, http.StatusForbidden, "email does not match identity token")
		return "", false
	}
	return claims.Email, true
}
