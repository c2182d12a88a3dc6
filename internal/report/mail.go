package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/simulation_report_email.html"))

const reportSubject = "Triage Simulation Report"

type reportMessage struct {
	Type string                          `json:"type"`
	To   string                          `json:"to"`
	Data domain.SimulationReportMailData `json:"data"`
}

// DecodeReportMessage 解析队列中的消息，只接受模拟报告类型
func DecodeReportMessage(body []byte) (string, *domain.SimulationReportMailData, error) {
	var msg reportMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", nil, err
	}
	if msg.Type != domain.MailTypeSimulationReport {
		return "", nil, fmt.Errorf("不支持的邮件类型: %s", msg.Type)
	}
	if msg.To == "" {
		return "", nil, fmt.Errorf("邮件收件人为空")
	}
	return msg.To, &msg.Data, nil
}

func BuildReportMail(from, to string, data *domain.SimulationReportMailData) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(reportTemplate, data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	m.Subject(reportSubject)

	return m, nil
}
