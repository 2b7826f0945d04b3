package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/filesmanager/handler"
	"github.com/dmitrymomot/filesmanager/pkg/auth"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/session"
	"github.com/dmitrymomot/filesmanager/svc/jobs"
	"github.com/dmitrymomot/filesmanager/svc/repository"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (a *api) postUser(ctx handler.Context, req createUserRequest) handler.Response {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return handler.JSONError(ErrMissingEmail)
	}
	if req.Password == "" {
		return handler.JSONError(ErrMissingPassword)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return a.failure(ctx, "hash password", err)
	}

	user, err := a.repo.CreateUser(ctx, email, hash)
	if errors.Is(err, repository.ErrEmailTaken) {
		return handler.JSONError(ErrAlreadyExist)
	}
	if err != nil {
		return a.failure(ctx, "create user", err)
	}

	// The account exists either way; a lost welcome job is only logged.
	if _, err := a.jobs.Enqueue(ctx, jobs.TypeWelcome, jobs.WelcomePayload(user.ID)); err != nil {
		a.logger.ErrorContext(ctx, "failed to enqueue welcome job",
			logger.Component("api"),
			logger.UserID(user.ID),
			logger.Error(err),
		)
	}

	return handler.JSON(userResponse{ID: user.ID, Email: user.Email}, handler.WithJSONStatus(http.StatusCreated))
}

func (a *api) getMe(ctx handler.Context, _ noRequest) handler.Response {
	userID, _ := session.UserIDFromContext(ctx)

	user, found, err := a.repo.FindUserByID(ctx, userID)
	if err != nil {
		return a.failure(ctx, "find user", err)
	}
	if !found {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	return handler.JSON(userResponse{ID: user.ID, Email: user.Email})
}

func (a *api) getConnect(ctx handler.Context, _ noRequest) handler.Response {
	token, err := a.auth.Connect(ctx, ctx.Request().Header.Get("Authorization"))
	if errors.Is(err, auth.ErrUnauthorized) {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	if err != nil {
		return a.failure(ctx, "connect", err)
	}
	return handler.JSON(tokenResponse{Token: token})
}

func (a *api) getDisconnect(ctx handler.Context, _ noRequest) handler.Response {
	token, err := a.sessions.Transport().GetToken(ctx.Request())
	if err != nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}

	err = a.auth.Disconnect(ctx, token)
	if errors.Is(err, auth.ErrUnauthorized) {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	if err != nil {
		return a.failure(ctx, "disconnect", err)
	}
	return handler.Empty()
}
