package main

import (
	"github.com/dmitrymomot/filesmanager/pkg/email"
	"github.com/dmitrymomot/filesmanager/pkg/file"
	"github.com/dmitrymomot/filesmanager/pkg/httpserver"
	"github.com/dmitrymomot/filesmanager/pkg/mongo"
	"github.com/dmitrymomot/filesmanager/pkg/queue"
	"github.com/dmitrymomot/filesmanager/pkg/redis"
	"github.com/dmitrymomot/filesmanager/pkg/session"
)

// appConfig gathers the configuration of every component from the environment.
type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"files-manager"`
	MaxBodySize int64  `env:"API_MAX_BODY_SIZE" envDefault:"10485760"`

	// RunWorker processes jobs in this process. Disable it when a separate
	// worker deployment consumes a shared redis queue.
	RunWorker bool `env:"RUN_WORKER" envDefault:"true"`

	// ThumbnailMaxPixels refuses larger source images.
	ThumbnailMaxPixels int `env:"THUMBNAIL_MAX_PIXELS" envDefault:"50000000"`

	HTTP    httpserver.Config
	Redis   redis.Config
	Mongo   mongo.Config
	Session session.Config
	Queue   queue.Config
	File    file.Config
	Email   email.Config
}
