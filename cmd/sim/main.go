package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/config"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/report"
	"github.com/sysu-ecnc-dev/triage-simulator/backend/internal/simulator"
)

func main() {
	// 日志写到 stderr，避免和报告输出混在一起
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// 读取配置
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置", slog.String("error", err.Error()))
		os.Exit(1)
	}

	params := simulator.ParametersFromConfig(cfg)
	sim, err := simulator.New(&params)
	if err != nil {
		logger.Error("模拟参数非法", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := sim.RunWithTimeout(context.Background(), time.Duration(cfg.Simulation.Timeout)*time.Second)
	if err != nil {
		logger.Error("模拟失败", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("模拟完成",
		slog.Int("patients", params.PatientCount),
		slog.Int("trials", params.TrialCount),
		slog.Int("urgent", result.Summary.UrgentCount),
		slog.Duration("duration", result.Duration),
	)

	// 输出直方图和汇总统计量
	display := report.NewTextDisplay(os.Stdout, cfg.Simulation.HistogramBins)
	if err := display.Display(result.BaselineWait, result.AfterTriage, result.Ensemble); err != nil {
		logger.Error("无法输出直方图", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := report.NewTextConsole(os.Stdout).Print(result.Summary); err != nil {
		logger.Error("无法输出汇总统计量", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Report.Recipient == "" {
		return
	}
	if err := publishReport(cfg, result); err != nil {
		logger.Error("无法发送模拟报告", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("模拟报告已发送到队列", slog.String("to", cfg.Report.Recipient))
}

func publishReport(cfg *config.Config, result *domain.SimulationResult) error {
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(cfg.RabbitMQ.Queue, true, false, false, false, nil); err != nil {
		return err
	}

	publisher := report.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	return publisher.PublishReport(context.Background(), cfg.Report.Recipient, result)
}
