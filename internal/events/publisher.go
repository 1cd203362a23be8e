// Package events publishes domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/config"
)

const (
	SubjectJobCreated               = "jobs.created"
	SubjectApplicationCreated       = "applications.created"
	SubjectApplicationStatusChanged = "applications.status_changed"
)

// JobCreated is published after a company posts a job.
type JobCreated struct {
	JobID     uuid.UUID `json:"jobId"`
	CompanyID uuid.UUID `json:"companyId"`
	Title     string    `json:"title"`
	At        time.Time `json:"at"`
}

// ApplicationCreated is published after a student applies.
type ApplicationCreated struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	JobID         uuid.UUID `json:"jobId"`
	StudentID     uuid.UUID `json:"studentId"`
	At            time.Time `json:"at"`
}

// ApplicationStatusChanged is published after a company changes an application's status.
type ApplicationStatusChanged struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	JobID         uuid.UUID `json:"jobId"`
	Status        string    `json:"status"`
	At            time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewPublisher connects to NATS when a URL is configured and falls back to a no-op publisher otherwise.
func NewPublisher(logger *zap.Logger, cfg config.NATSConfig) (Publisher, error) {
	if cfg.URL == "" {
		logger.Info("NATS_URL not set, domain events are disabled")
		return NopPublisher{}, nil
	}

	opts := []nats.Option{
		nats.Name("campus-portal-api"),
		nats.Timeout(cfg.ConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, apperror.Internal("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return apperror.Internal("marshaling event", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("subject", subject),
			zap.Error(err))
		return apperror.Internal("publishing to NATS", err)
	}

	p.logger.Debug("published event",
		zap.String("subject", subject),
		zap.Int("size", len(data)))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

func (NopPublisher) Close() {}

// PublishBestEffort publishes and logs failures. Events never fail the request that caused them.
func PublishBestEffort(ctx context.Context, p Publisher, logger *zap.Logger, subject string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, payload); err != nil {
		logger.Warn("event not published", zap.String("subject", subject), zap.Error(err))
	}
}
