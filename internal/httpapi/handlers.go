// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"

	"github.com/memberchat/memberchat/internal/auth"
	"github.com/memberchat/memberchat/internal/chat"
	"github.com/memberchat/memberchat/internal/observability"
)

// Handler implements the member and chat endpoints.
type Handler struct {
	directory   *auth.Directory
	codec       *auth.Codec
	log         *chat.Log
	recentLimit int
	validate    *validator.Validate
	metrics     *observability.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// HandlerDeps carries the collaborators a Handler needs. Metrics and
// Logger are optional.
type HandlerDeps struct {
	Directory   *auth.Directory
	Codec       *auth.Codec
	Log         *chat.Log
	RecentLimit int
	Metrics     *observability.Metrics
	Logger      *slog.Logger
}

// NewHandler creates a Handler from its dependencies.
func NewHandler(deps HandlerDeps) (*Handler, error) {
	if deps.Directory == nil {
		return nil, oops.Code("HTTPAPI_NIL_DEPENDENCY").Errorf("directory is required")
	}
	if deps.Codec == nil {
		return nil, oops.Code("HTTPAPI_NIL_DEPENDENCY").Errorf("token codec is required")
	}
	if deps.Log == nil {
		return nil, oops.Code("HTTPAPI_NIL_DEPENDENCY").Errorf("chat log is required")
	}
	limit := deps.RecentLimit
	if limit <= 0 {
		limit = chat.DefaultRecentLimit
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		directory:   deps.Directory,
		codec:       deps.Codec,
		log:         deps.Log,
		recentLimit: limit,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		metrics:     deps.Metrics,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Routes registers all endpoints on r. Called once for the root mount
// and once for the /api mount.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/hello", h.handleHello)
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(RequireMember(h.codec, h.directory))
		r.Get("/profile", h.handleProfile)
		r.Get("/messages", h.handleListMessages)
		r.Post("/messages", h.handleCreateMessage)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondDetail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	member, err := h.directory.Register(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			respondDetail(w, http.StatusBadRequest, "a member with this username already exists")
		default:
			respondDetail(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	token, err := h.codec.Issue(member.Username)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue token after registration",
			"username", member.Username, "error", err)
		respondDetail(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	if h.metrics != nil {
		h.metrics.MembersRegistered.Inc()
	}
	h.logger.InfoContext(r.Context(), "member registered", "username", member.Username)

	respondJSON(w, http.StatusCreated, authResponse{Username: member.Username, Token: token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Password) == "" {
		respondDetail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	// A single generic message for both unknown usernames and wrong
	// passwords keeps the response from leaking which one it was.
	if !h.directory.VerifyPassword(username, req.Password) {
		respondDetail(w, http.StatusBadRequest, "invalid username or password")
		return
	}

	token, err := h.codec.Issue(username)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue token on login",
			"username", username, "error", err)
		respondDetail(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.logger.InfoContext(r.Context(), "member logged in", "username", username)
	respondJSON(w, http.StatusOK, authResponse{Username: username, Token: token})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	member, ok := MemberFromContext(r.Context())
	if !ok {
		respondDetail(w, http.StatusUnauthorized, "member not found")
		return
	}
	respondJSON(w, http.StatusOK, profileResponse{
		Username:  member.Username,
		CreatedAt: member.CreatedAt,
	})
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.log.Recent(h.recentLimit))
}

func (h *Handler) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	member, ok := MemberFromContext(r.Context())
	if !ok {
		respondDetail(w, http.StatusUnauthorized, "member not found")
		return
	}

	var req postMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondDetail(w, http.StatusBadRequest, "message text cannot be empty")
		return
	}
	if utf8.RuneCountInString(text) > chat.MaxTextLength {
		respondDetail(w, http.StatusBadRequest, "message text is too long")
		return
	}

	msg := h.log.Append(member.Username, text)
	if h.metrics != nil {
		h.metrics.MessagesAppended.Inc()
	}

	respondJSON(w, http.StatusCreated, msg)
}

func (h *Handler) handleHello(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, helloResponse{
		Message:   "Hello!",
		Timestamp: h.now().UTC(),
	})
}
