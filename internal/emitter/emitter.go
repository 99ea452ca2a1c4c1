// Package emitter publishes run-completed events to NATS JetStream so external
// report emitters can pick up fresh classification results.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/stephaneglaugier91/daulingo/internal/logger"
)

// Config holds the configuration for the NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

// RunEvent is the payload published when a classification run completes
type RunEvent struct {
	RunID        string    `json:"run_id"`
	WindowStart  string    `json:"window_start"`
	WindowEnd    string    `json:"window_end"`
	RiskWindow   int       `json:"risk_window"`
	RowsWritten  int64     `json:"rows_written"`
	UserFailures int64     `json:"user_failures"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Publisher publishes classification run events
//
//go:generate mockgen -source=emitter.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishRunCompleted publishes a run-completed event
	PublishRunCompleted(ctx context.Context, event *RunEvent) error
	// Close closes the underlying connection
	Close()
}

type publisher struct {
	nc         *nats.Conn
	js         jetstream.JetStream
	streamName string
}

// NewPublisher creates a new NATS JetStream publisher
func NewPublisher(cfg Config) (Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
	}, nil
}

// PublishRunCompleted publishes a run-completed event
func (p *publisher) PublishRunCompleted(ctx context.Context, event *RunEvent) error {
	logger.Debug("Publishing run event", zap.Any("event", event))

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	subject := fmt.Sprintf("%s.runs.completed", p.streamName)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}

	return nil
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}
	p.nc.Close()
}
