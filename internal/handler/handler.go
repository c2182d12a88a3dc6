package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/config"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/utils"
)

// ResultCache 缓存已完成的模拟结果，由 repository 基于 redis 实现
type ResultCache interface {
	GetSimulationResult(ctx context.Context, key string) (*domain.SimulationResult, error)
	SaveSimulationResult(ctx context.Context, key string, result *domain.SimulationResult) error
}

type ReportPublisher interface {
	PublishReport(ctx context.Context, to string, result *domain.SimulationResult) error
}

type Handler struct {
	validate  *utils.Validator
	config    *config.Config
	cache     ResultCache
	publisher ReportPublisher

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, cache ResultCache, publisher ReportPublisher) (*Handler, error) {
	validate, err := utils.NewValidator()
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:  validate,
		config:    cfg,
		cache:     cache,
		publisher: publisher,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.HealthCheck)

	h.Mux.Route("/simulations", func(r chi.Router) {
		r.With(h.simulationParameters).Post("/", h.RunSimulation)
		r.With(h.defaultSimulationParameters).Get("/default", h.RunSimulation)
	})
}
