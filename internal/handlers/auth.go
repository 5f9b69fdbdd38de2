// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/store"
	"blogapi/internal/token"
)

// Auth groups registration, login and identity handlers.
type Auth struct {
	users  *store.UserStore
	tokens *token.Manager
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *token.Manager) *Auth {
	return &Auth{users: users, tokens: tokens}
}

// authPayload is the response body for register/login: the user record
// plus a fresh bearer token.
type authPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new user account and signs them in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	clean, errs := registerSchema.Apply(payload)
	if errs != nil {
		respondValidation(w, errs)
		return
	}

	email := clean["email"].(string)
	existing, err := a.users.FindByEmail(email)
	if err != nil {
		respondInternal(w, "register lookup failed", err)
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "Email is already registered")
		return
	}

	user, err := a.users.Create(clean["name"].(string), email, clean["password"].(string), models.RoleUser)
	if err != nil {
		// Concurrent registration of the same email loses to the unique index.
		if store.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "Email is already registered")
			return
		}
		respondInternal(w, "register create failed", err)
		return
	}

	tok, err := a.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		respondInternal(w, "token issue failed", err)
		return
	}
	respondData(w, http.StatusCreated, authPayload{User: user, Token: tok})
}

// Login exchanges credentials for a bearer token. Unknown email and wrong
// password produce the identical 401.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	clean, errs := loginSchema.Apply(payload)
	if errs != nil {
		respondValidation(w, errs)
		return
	}

	user, err := a.users.FindByEmail(clean["email"].(string))
	if err != nil {
		respondInternal(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, clean["password"].(string)) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tok, err := a.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		respondInternal(w, "token issue failed", err)
		return
	}
	respondData(w, http.StatusOK, authPayload{User: user, Token: tok})
}

// Me returns the authenticated user's own record.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	respondData(w, http.StatusOK, user)
}
