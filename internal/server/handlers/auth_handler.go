package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"yt-blog-web/internal/auth"
	"yt-blog-web/internal/domain"
	"yt-blog-web/internal/store"

	"github.com/google/uuid"
)

// パスワードの最小長。bcrypt の入力上限(72バイト)は超えさせません。
const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Register は POST /auth/register のハンドラーです。
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRegistration(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "email is already registered")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create user", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to issue token", "user_id", user.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", user.ID)
	respondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

// Login は POST /auth/login のハンドラーです。存在しない利用者と
// パスワード不一致は区別せず、同じ 401 を返します。
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to issue token", "user_id", user.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

func validateRegistration(req registerRequest) error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.New("email must be a valid address")
	}
	if len(req.Password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	if len(req.Password) > maxPasswordLength {
		return errors.New("password must be at most 72 characters")
	}
	return nil
}
