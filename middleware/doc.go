// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /moods", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Sessions

Routes that act on behalf of a user require a Bearer session token:

	mux.HandleFunc("POST /scores/{id}/claim",
		middleware.WithLogging(middleware.WithSession(secret, h.Claim)))

Handlers read the caller with UserIDFromContext. Missing or invalid tokens
get 401.

# CORS

	server := http.Server{Handler: middleware.CORS(mux)}

Reflects the request Origin and allows the Authorization header.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.CodedErrorResponse(w, http.StatusConflict, "already_claimed", "reward already claimed")

ParseJSONBody decodes request bodies up to 1 MiB.

# Client IP

GetClientIP checks X-Forwarded-For, then X-Real-IP, then RemoteAddr. The
result is hashed before it is stored with an answer set.
*/
package middleware
