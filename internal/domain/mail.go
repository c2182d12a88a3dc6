package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const MailTypeSimulationReport = "simulation_report"

type SimulationReportMailData struct {
	Parameters SimulationParameters `json:"parameters"`
	Summary    Summary              `json:"summary"`
}
