package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"furitingoasis/envmon/internal/monitor"
)

var ErrNotConnected = errors.New("mqtt client not connected")

// MQTTConfig holds the configuration for the MQTT publisher.
type MQTTConfig struct {
	BrokerURL     string
	ClientID      string
	Username      string
	Password      string
	TopicPrefix   string
	QoS           byte
	Retained      bool
	AutoReconnect bool
	MaxRetries    int
	RetryInterval time.Duration
	// PublishTimeout bounds the wait for a publish acknowledgement.
	PublishTimeout time.Duration
}

// Publisher sends upload records and alerts to the broker.
type Publisher struct {
	client mqtt.Client
	cfg    MQTTConfig
	logger *slog.Logger
}

// NewPublisher creates a publisher. No connection is made until Connect.
func NewPublisher(cfg MQTTConfig, logger *slog.Logger) *Publisher {
	opts := mqtt.NewClientOptions().AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(cfg.AutoReconnect)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})
	return newPublisher(mqtt.NewClient(opts), cfg, logger)
}

func newPublisher(client mqtt.Client, cfg MQTTConfig, logger *slog.Logger) *Publisher {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 2 * time.Second
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	return &Publisher{client: client, cfg: cfg, logger: logger}
}

// Connect tries the broker up to MaxRetries times. A failure is returned, not
// fatal: with AutoReconnect the client may still come up later.
func (p *Publisher) Connect(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= p.cfg.MaxRetries; attempt++ {
		token := p.client.Connect()
		if token.WaitTimeout(p.cfg.RetryInterval) && token.Error() == nil {
			p.logger.Info("connected to mqtt broker", "broker", p.cfg.BrokerURL)
			return nil
		}
		err = token.Error()
		if err == nil {
			err = fmt.Errorf("connect timeout after %s", p.cfg.RetryInterval)
		}
		p.logger.Warn("failed to connect to mqtt broker",
			"attempt", attempt,
			"max_retries", p.cfg.MaxRetries,
			"error", err,
		)
		if attempt == p.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.cfg.RetryInterval):
		}
	}
	return fmt.Errorf("mqtt connect to %s: %w", p.cfg.BrokerURL, err)
}

// PostRecord publishes rec as JSON on <prefix>/readings.
func (p *Publisher) PostRecord(ctx context.Context, rec monitor.UploadRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return p.publish(ctx, p.cfg.TopicPrefix+"/readings", payload)
}

// Alert publishes a plain-text notice on <prefix>/alerts.
func (p *Publisher) Alert(ctx context.Context, msg string) error {
	return p.publish(ctx, p.cfg.TopicPrefix+"/alerts", []byte(msg))
}

func (p *Publisher) publish(ctx context.Context, topic string, payload []byte) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}
	token := p.client.Publish(topic, p.cfg.QoS, p.cfg.Retained, payload)

	timer := time.NewTimer(p.cfg.PublishTimeout)
	defer timer.Stop()
	select {
	case <-token.Done():
	case <-timer.C:
		return fmt.Errorf("publish timeout for topic %s", topic)
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.logger.Debug("published", "topic", topic, "bytes", len(payload))
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.logger.Info("disconnecting from mqtt broker")
		p.client.Disconnect(250) // Wait up to 250 milliseconds for inflight messages to be delivered
	}
}
