package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/report"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/repository"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/simulator"
)

type SimulationResponse struct {
	Result     *domain.SimulationResult `json:"result"`
	Histograms []domain.Histogram       `json:"histograms"`
	Cached     bool                     `json:"cached"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "服务正常", map[string]string{
		"environment": h.config.Environment,
	})
}

func (h *Handler) RunSimulation(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(SimulationRequestCtx).(*simulationRequest)
	params := req.Parameters

	// 只有基线也使用种子时结果才可复现，才能缓存
	var cacheKey string
	if params.BaselineSeeded && h.cache != nil {
		key, err := repository.SimulationResultKey(params.Domain())
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		cacheKey = key
	}

	if cacheKey != "" {
		result, err := h.cache.GetSimulationResult(r.Context(), cacheKey)
		switch {
		case err == nil:
			h.respondSimulation(w, r, req, result, true)
			return
		case errors.Is(err, repository.ErrCacheMiss):
		default:
			// 缓存不可用时直接重新计算
			slog.Warn("无法读取缓存的模拟结果", "key", cacheKey, "error", err)
		}
	}

	sim, err := simulator.New(&params)
	if err != nil {
		switch {
		case errors.Is(err, simulator.ErrInvalidParameter):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	result, err := sim.RunWithTimeout(r.Context(), time.Duration(h.config.Simulation.Timeout)*time.Second)
	if err != nil {
		switch {
		case errors.Is(err, simulator.ErrInvalidParameter):
			h.badRequest(w, r, err)
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			h.errorResponse(w, r, "模拟超时或已取消")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if cacheKey != "" {
		if err := h.cache.SaveSimulationResult(r.Context(), cacheKey, result); err != nil {
			slog.Warn("无法缓存模拟结果", "key", cacheKey, "error", err)
		}
	}

	h.respondSimulation(w, r, req, result, false)
}

func (h *Handler) respondSimulation(w http.ResponseWriter, r *http.Request, req *simulationRequest, result *domain.SimulationResult, cached bool) {
	// 将报告发送到消息队列
	if req.Notify != "" && h.publisher != nil {
		if err := h.publisher.PublishReport(r.Context(), req.Notify, result); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "模拟完成", SimulationResponse{
		Result:     result,
		Histograms: report.BuildHistograms(result.BaselineWait, result.AfterTriage, result.Ensemble, req.Bins),
		Cached:     cached,
	})
}
