package handler

type ContextKey string

var (
	SimulationRequestCtx ContextKey = "simulationRequest"
)
