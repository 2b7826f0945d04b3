package api

import (
	"context"

	"github.com/dmitrymomot/filesmanager/handler"
	"github.com/dmitrymomot/filesmanager/pkg/httpserver"
)

type statusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type statsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

func alive(ctx context.Context, check httpserver.Check) bool {
	return check != nil && check(ctx) == nil
}

func (a *api) getStatus(ctx handler.Context, _ noRequest) handler.Response {
	return handler.JSON(statusResponse{
		Redis: alive(ctx, a.redisCheck),
		DB:    alive(ctx, a.dbCheck),
	})
}

func (a *api) getStats(ctx handler.Context, _ noRequest) handler.Response {
	users, err := a.repo.CountUsers(ctx)
	if err != nil {
		return a.failure(ctx, "count users", err)
	}
	files, err := a.repo.CountFiles(ctx)
	if err != nil {
		return a.failure(ctx, "count files", err)
	}
	return handler.JSON(statsResponse{Users: users, Files: files})
}
