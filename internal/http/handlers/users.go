package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nmorales89/accounthub/internal/accounts"
	"github.com/nmorales89/accounthub/internal/config"
	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	Register(ctx context.Context, req user.RegisterRequest) (user.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Get(ctx context.Context, userID string) (user.User, error)
	Update(ctx context.Context, userID string, req user.UpdateRequest) (user.User, error)
	Refresh(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

type UsersHandler struct {
	svc AccountService
}

func NewUsersHandler(svc AccountService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// POST /register
func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.svc.Register(cctx, req)

	if err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) {
			RespondConflict(ctx, "User with provided email already exists. Please use a different email.")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	Respond(ctx, http.StatusCreated, "Success - you are now registered", gin.H{"user": u})
}

// POST /login
func (h *UsersHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	token, err := h.svc.Login(cctx, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			// 404 on purpose: do not confirm whether the account exists
			RespondNotFound(ctx, "Invalid Username or Password")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	Respond(ctx, http.StatusOK, "Success - you are now logged in", gin.H{"token": token})
}

// GET /user
func (h *UsersHandler) Get(ctx *gin.Context) {
	id, ok := middlewares.PrincipalFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.svc.Get(cctx, id)

	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			RespondNotFound(ctx, "User with this token / credentials was not found")
			return
		}

		RespondInternal(ctx, "Could not fetch user")
		return
	}

	Respond(ctx, http.StatusOK, "Success - user data retrieved", gin.H{"user": u})
}

// PUT /user
func (h *UsersHandler) Update(ctx *gin.Context) {
	id, ok := middlewares.PrincipalFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req user.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.svc.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrNoFields):
			RespondBadRequest(ctx, "No user information to update. Please provide at least one field.")
		case errors.Is(err, accounts.ErrEmailTaken):
			RespondConflict(ctx, "The provided email belongs to another user. Please use a different email.")
		case errors.Is(err, accounts.ErrNotFound):
			RespondNotFound(ctx, "User was not found")
		default:
			RespondInternal(ctx, "Could not update user")
		}
		return
	}

	Respond(ctx, http.StatusOK, "User information was updated", gin.H{"user": u})
}

// DELETE /user
func (h *UsersHandler) Delete(ctx *gin.Context) {
	id, ok := middlewares.PrincipalFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.svc.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			RespondNotFound(ctx, "User was not found")
			return
		}

		RespondInternal(ctx, "Could not delete user")
		return
	}

	Respond(ctx, http.StatusOK, "User was successfully deleted", nil)
}

// POST /user/refreshtoken
func (h *UsersHandler) RefreshToken(ctx *gin.Context) {
	id, ok := middlewares.PrincipalFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	token, err := h.svc.Refresh(cctx, id)

	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			RespondNotFound(ctx, "User with this token / credentials was not found")
			return
		}

		RespondInternal(ctx, "Could not refresh token")
		return
	}

	Respond(ctx, http.StatusOK, "Success - you have a new token", gin.H{"token": token})
}
