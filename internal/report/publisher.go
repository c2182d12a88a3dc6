package report

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
)

// Channel 为 *amqp.Channel 中发布消息所需的方法
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher 将模拟报告发送到消息队列，由 mail worker 负责发送邮件
type Publisher struct {
	channel Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(ch Channel, queue string, timeout time.Duration) *Publisher {
	return &Publisher{
		channel: ch,
		queue:   queue,
		timeout: timeout,
	}
}

func (p *Publisher) PublishReport(ctx context.Context, to string, result *domain.SimulationResult) error {
	mailMessage := domain.MailMessage{
		Type: domain.MailTypeSimulationReport,
		To:   to,
		Data: domain.SimulationReportMailData{
			Parameters: result.Parameters,
			Summary:    result.Summary,
		},
	}

	body, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
