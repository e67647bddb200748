package api

import (
	"log"
	"time"

	"github.com/witherow/biostack/internal/db"
	"github.com/witherow/biostack/internal/services"
)

type Handler struct {
	repos        *db.Repositories
	auth         *services.AuthService
	analysis     *services.AnalysisService
	timeline     *services.TimelineService
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	logger       *log.Logger
}

type HandlerConfig struct {
	Repos        *db.Repositories
	Auth         *services.AuthService
	Analysis     *services.AnalysisService
	Timeline     *services.TimelineService
	SecretKey    []byte
	Location     *time.Location
	CookieSecure bool
	Logger       *log.Logger
}

func NewHandler(config HandlerConfig) *Handler {
	location := config.Location
	if location == nil {
		location = time.UTC
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		repos:        config.Repos,
		auth:         config.Auth,
		analysis:     config.Analysis,
		timeline:     config.Timeline,
		secretKey:    config.SecretKey,
		location:     location,
		cookieSecure: config.CookieSecure,
		logger:       logger,
	}
}
