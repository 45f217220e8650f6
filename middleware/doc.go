// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("POST /invoke", middleware.WithLogging(handler))

Every request gets an id (the caller's X-Request-ID, or a new UUID). The id
is echoed in the X-Request-ID response header, stored in the request
context (middleware.RequestID) and attached to the start and completion
log lines. Completion logs include status, response size and duration_ms.

# CORS Middleware

Enable cross-origin requests for the web app:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers Content-Type, X-Client-ID,
X-Invoker-Key and X-Request-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Read raw request bodies (capped at MaxBodyBytes) for schema validation:

	body, err := middleware.ReadBody(w, r)

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
