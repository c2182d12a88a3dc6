package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/report"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/simulator"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type simulationRequest struct {
	Parameters simulator.Parameters
	Bins       int
	Notify     string
}

// simulationParameters 以配置中的默认参数为基础，用请求体中出现的字段覆盖
func (h *Handler) simulationParameters(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PatientCount       *int     `json:"patientCount" validate:"omitnil,gte=1,lte=1000000"`
			TrialCount         *int     `json:"trialCount" validate:"omitnil,gte=1,lte=100000"`
			BaselineMean       *float64 `json:"baselineMean"`
			BaselineStd        *float64 `json:"baselineStd"`
			SeverityThreshold  *float64 `json:"severityThreshold"`
			UrgentReduction    *float64 `json:"urgentReduction"`
			NonUrgentReduction *float64 `json:"nonUrgentReduction"`
			Noise              *float64 `json:"noise"`
			Seed               *int64   `json:"seed"`
			BaselineSeeded     *bool    `json:"baselineSeeded"`
			HistogramBins      *int     `json:"histogramBins" validate:"omitnil,gte=1,lte=200"`
			Notify             string   `json:"notify" validate:"omitempty,email"`
		}

		// 允许空请求体，此时全部使用默认参数
		if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			h.badRequest(w, r, err)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			h.badRequest(w, r, err)
			return
		}

		sr := h.newSimulationRequest()
		p := &sr.Parameters
		override(&p.PatientCount, req.PatientCount)
		override(&p.TrialCount, req.TrialCount)
		override(&p.BaselineMean, req.BaselineMean)
		override(&p.BaselineStd, req.BaselineStd)
		override(&p.SeverityThreshold, req.SeverityThreshold)
		override(&p.UrgentReduction, req.UrgentReduction)
		override(&p.NonUrgentReduction, req.NonUrgentReduction)
		override(&p.Noise, req.Noise)
		override(&p.Seed, req.Seed)
		override(&p.BaselineSeeded, req.BaselineSeeded)
		override(&sr.Bins, req.HistogramBins)
		sr.Notify = req.Notify

		ctx := context.WithValue(r.Context(), SimulationRequestCtx, sr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) defaultSimulationParameters(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), SimulationRequestCtx, h.newSimulationRequest())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) newSimulationRequest() *simulationRequest {
	bins := h.config.Simulation.HistogramBins
	if bins <= 0 {
		bins = report.DefaultBins
	}
	return &simulationRequest{
		Parameters: simulator.ParametersFromConfig(h.config),
		Bins:       bins,
	}
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
