package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"furitingoasis/envmon/internal/config"
	"furitingoasis/envmon/internal/hardware"
	"furitingoasis/envmon/internal/monitor"
	"furitingoasis/envmon/internal/transport"
	"furitingoasis/envmon/mqtt"
)

// Hardware is what the loop needs from the board.
type Hardware interface {
	Start() error
	Halt() error
	Climate() *hardware.Climate
	Light() monitor.AnalogReader
	Screen() *hardware.LCD
	Outputs() *hardware.Outputs
}

// App owns the board, the transport and the loop built over them.
type App struct {
	hw     Hardware
	loop   *monitor.Loop
	closer func()
	log    *slog.Logger
}

// New builds the upload transport selected by cfg and a loop over hw.
// The board is not started.
func New(cfg config.Config, hw Hardware, logger *slog.Logger) (*App, error) {
	var (
		poster    monitor.Poster
		connector monitor.Connector
		alerter   monitor.Alerter
		closer    = func() {}
	)

	switch cfg.UploadTransport {
	case config.TransportHTTP:
		p := transport.NewHTTPPoster(cfg.UploadURL,
			transport.WithTimeout(cfg.UploadTimeout),
			transport.WithAPIKey(cfg.UploadAPIKey),
		)
		poster, connector = p, p
	case config.TransportMQTT:
		p := mqtt.NewPublisher(mqtt.MQTTConfig{
			BrokerURL:      cfg.MQTTBrokerURL,
			ClientID:       cfg.MQTTClientID,
			Username:       cfg.MQTTUsername,
			Password:       cfg.MQTTPassword,
			TopicPrefix:    cfg.MQTTTopicPrefix,
			QoS:            1,
			AutoReconnect:  true,
			MaxRetries:     3,
			RetryInterval:  2 * time.Second,
			PublishTimeout: cfg.UploadTimeout,
		}, logger)
		poster, connector, alerter = p, p, p
		closer = p.Close
	default:
		return nil, fmt.Errorf("unknown upload transport %q", cfg.UploadTransport)
	}

	loop := monitor.NewLoop(monitor.Deps{
		Sensor: monitor.NewSensorReader(hw.Climate(), hw.Light(), monitor.SensorOptions{
			LightChannel:   cfg.LightChannel,
			MaxLight:       cfg.MaxLight(),
			HumidityOffset: cfg.HumidityOffset,
			Logger:         logger,
		}),
		Display:    monitor.NewPresenter(hw.Screen()),
		Actuators:  monitor.NewController(hw.Outputs(), logger),
		Uploader:   monitor.NewUploader(poster, cfg.DataSendInterval, logger),
		Thresholds: cfg.Thresholds,
		Interval:   cfg.SensorReadInterval,
		Connector:  connector,
		Alerter:    alerter,
		Logger:     logger,
	})

	return &App{hw: hw, loop: loop, closer: closer, log: logger}, nil
}

// Run starts the board and runs the loop until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.hw.Start(); err != nil {
		return err
	}
	defer a.shutdown()

	a.log.Info("environmental control system started")
	return a.loop.Run(ctx)
}

// Once starts the board, boots and runs a single cycle.
func (a *App) Once(ctx context.Context) (monitor.CycleReport, error) {
	if err := a.hw.Start(); err != nil {
		return monitor.CycleReport{}, err
	}
	defer a.shutdown()

	a.loop.Boot(ctx)
	defer a.loop.Reset()
	return a.loop.Cycle(ctx), nil
}

func (a *App) shutdown() {
	a.closer()
	if err := a.hw.Halt(); err != nil {
		a.log.Error("hardware halt failed", "error", err)
	}
}
