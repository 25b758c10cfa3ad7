package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"mandi/internal/config"
	market "mandi/internal/domain/entity/market"
)

// RatesMessage is the JSON payload published on every market tick.
type RatesMessage struct {
	SessionID string                 `json:"session_id"`
	TickedAt  time.Time              `json:"ticked_at"`
	Rates     map[string]market.Rate `json:"rates"`
}

// Publisher pushes fresh rate snapshots to a RabbitMQ fanout exchange so
// external display layers can follow the simulation without polling.
type Publisher struct {
	cfg    config.RabbitMQConfig
	logger logrus.FieldLogger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher prepares a publisher for the given configuration.
func NewPublisher(cfg config.RabbitMQConfig, logger logrus.FieldLogger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Publisher{cfg: cfg, logger: logger}, nil
}

// Start establishes the AMQP connection and declares the fanout exchange.
func (p *Publisher) Start() error {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.cfg.RatesExchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", p.cfg.RatesExchange, err)
	}

	p.mu.Lock()
	p.conn = conn
	p.ch = ch
	p.mu.Unlock()

	p.logger.Infof("rabbitmq publisher started: exchange=%s", p.cfg.RatesExchange)
	return nil
}

// PublishRates sends one session's fresh snapshot. Failures are returned for
// logging but must never abort the tick loop.
func (p *Publisher) PublishRates(ctx context.Context, sessionID string, rates map[string]market.Rate) error {
	p.mu.Lock()
	ch := p.ch
	p.mu.Unlock()
	if ch == nil {
		return errors.New("publisher not started")
	}

	body, err := json.Marshal(RatesMessage{
		SessionID: sessionID,
		TickedAt:  time.Now(),
		Rates:     rates,
	})
	if err != nil {
		return fmt.Errorf("marshal rates message: %w", err)
	}

	return ch.PublishWithContext(ctx, p.cfg.RatesExchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
