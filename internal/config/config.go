package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"furitingoasis/envmon/internal/monitor"
)

const (
	TransportHTTP = "http"
	TransportMQTT = "mqtt"
)

// Pins holds raspi header pin numbers for each output.
type Pins struct {
	FanRelay   string
	LightRelay string
	Buzzer     string
	FanLED     string
	LightLED   string
	AlarmLED   string
}

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	Thresholds         monitor.Thresholds
	SensorReadInterval time.Duration
	DataSendInterval   time.Duration

	ADCBits        int
	LightChannel   int
	HumidityOffset float64
	Pins           Pins
	RelayActiveLow bool

	UploadTransport string
	UploadURL       string
	UploadAPIKey    string
	UploadTimeout   time.Duration

	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
}

// MaxLight is the largest raw value the configured ADC can produce.
func (c Config) MaxLight() int {
	return 1<<c.ADCBits - 1
}

func LoadFromEnv() (Config, error) {
	appEnv := envString("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envString("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:   appEnv,
		LogLevel: level,
		Pins: Pins{
			FanRelay:   envString("FAN_RELAY_PIN", "16"),
			LightRelay: envString("LIGHT_RELAY_PIN", "22"),
			Buzzer:     envString("BUZZER_PIN", "18"),
			FanLED:     envString("FAN_LED_PIN", "29"),
			LightLED:   envString("LIGHT_LED_PIN", "31"),
			AlarmLED:   envString("ALARM_LED_PIN", "33"),
		},
		UploadTransport: strings.ToLower(envString("UPLOAD_TRANSPORT", TransportHTTP)),
		UploadURL:       envString("UPLOAD_URL", "http://localhost:8080/api/readings"),
		UploadAPIKey:    envString("UPLOAD_API_KEY", ""),
		MQTTBrokerURL:   envString("MQTT_BROKER_URL", "tcp://localhost:1883"),
		MQTTClientID:    envString("MQTT_CLIENT_ID", "envmon"),
		MQTTUsername:    envString("MQTT_USERNAME", ""),
		MQTTPassword:    envString("MQTT_PASSWORD", ""),
		MQTTTopicPrefix: strings.TrimSuffix(envString("MQTT_TOPIC_PREFIX", "envmon"), "/"),
	}

	def := monitor.DefaultThresholds()
	if cfg.Thresholds.TempHigh, err = envFloat("TEMP_HIGH", def.TempHigh); err != nil {
		return Config{}, err
	}
	if cfg.Thresholds.HumidityHigh, err = envFloat("HUMIDITY_HIGH", def.HumidityHigh); err != nil {
		return Config{}, err
	}
	if cfg.Thresholds.LightLow, err = envInt("LIGHT_LOW", def.LightLow); err != nil {
		return Config{}, err
	}
	if cfg.HumidityOffset, err = envFloat("HUMIDITY_OFFSET", 0); err != nil {
		return Config{}, err
	}

	if cfg.SensorReadInterval, err = envPositiveDuration("SENSOR_READ_INTERVAL", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DataSendInterval, err = envPositiveDuration("DATA_SEND_INTERVAL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.UploadTimeout, err = envPositiveDuration("UPLOAD_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.ADCBits, err = envInt("ADC_BITS", 12); err != nil {
		return Config{}, err
	}
	if cfg.ADCBits < 8 || cfg.ADCBits > 16 {
		return Config{}, fmt.Errorf("ADC_BITS must be between 8 and 16, got %d", cfg.ADCBits)
	}
	if cfg.LightChannel, err = envInt("LIGHT_CHANNEL", 0); err != nil {
		return Config{}, err
	}
	if cfg.LightChannel < 0 || cfg.LightChannel > 3 {
		return Config{}, fmt.Errorf("LIGHT_CHANNEL must be between 0 and 3, got %d", cfg.LightChannel)
	}
	if cfg.RelayActiveLow, err = envBool("RELAY_ACTIVE_LOW", true); err != nil {
		return Config{}, err
	}

	switch cfg.UploadTransport {
	case TransportHTTP:
		u, err := url.Parse(cfg.UploadURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("invalid UPLOAD_URL %q", cfg.UploadURL)
		}
	case TransportMQTT:
		if cfg.MQTTTopicPrefix == "" {
			return Config{}, fmt.Errorf("MQTT_TOPIC_PREFIX must not be empty")
		}
	default:
		return Config{}, fmt.Errorf("invalid UPLOAD_TRANSPORT %q (allowed: http, mqtt)", cfg.UploadTransport)
	}

	return cfg, nil
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envFloat(key string, def float64) (float64, error) {
	s := envString(key, "")
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

func envInt(key string, def int) (int, error) {
	s := envString(key, "")
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

func envBool(key string, def bool) (bool, error) {
	s := envString(key, "")
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

func envPositiveDuration(key string, def time.Duration) (time.Duration, error) {
	s := envString(key, "")
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
