package api

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.temporal.io/sdk/client"

	"github.com/freshfold/laundry-api/internal/domains/orders/adapters/events"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string   `envconfig:"PORT" default:"8080"`
	PostgresDSN       string   `envconfig:"POSTGRES_DSN"`
	TemporalAddress   string   `envconfig:"TEMPORAL_ADDRESS"`
	TemporalNamespace string   `envconfig:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool     `envconfig:"TEMPORAL_DISABLED" default:"false"`
	KafkaBrokers      []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic        string   `envconfig:"KAFKA_TOPIC"`
	NotifierBaseURL   string   `envconfig:"NOTIFIER_BASE_URL"`
	ReassignPolicy    string   `envconfig:"REASSIGN_POLICY" default:"refuse"`
	// Zero disables the in-process reset; cmd/counter-reset covers cron setups.
	CounterResetIntervalMinutes int `envconfig:"COUNTER_RESET_INTERVAL_MINUTES" default:"0"`
}

// LoadConfig reads an optional .env file plus the environment, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	c.PostgresDSN = strings.TrimSpace(c.PostgresDSN)
	if c.TemporalAddress = strings.TrimSpace(c.TemporalAddress); c.TemporalAddress == "" {
		c.TemporalAddress = client.DefaultHostPort
	}
	if c.TemporalNamespace = strings.TrimSpace(c.TemporalNamespace); c.TemporalNamespace == "" {
		c.TemporalNamespace = client.DefaultNamespace
	}
	brokers := c.KafkaBrokers[:0]
	for _, broker := range c.KafkaBrokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	c.KafkaBrokers = brokers
	if c.KafkaTopic = strings.TrimSpace(c.KafkaTopic); c.KafkaTopic == "" {
		c.KafkaTopic = events.DefaultTopic
	}
	c.NotifierBaseURL = strings.TrimSpace(c.NotifierBaseURL)
	c.ReassignPolicy = strings.ToLower(strings.TrimSpace(c.ReassignPolicy))
}

// Validate rejects settings the process cannot start with.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.CounterResetIntervalMinutes < 0 {
		return fmt.Errorf("COUNTER_RESET_INTERVAL_MINUTES must not be negative")
	}
	switch domain.ReassignPolicy(c.ReassignPolicy) {
	case domain.ReassignRefuse, domain.ReassignAllow:
	default:
		return fmt.Errorf("REASSIGN_POLICY must be %q or %q", domain.ReassignRefuse, domain.ReassignAllow)
	}
	if c.NotifierBaseURL != "" {
		u, err := url.Parse(c.NotifierBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("NOTIFIER_BASE_URL must be an absolute URL")
		}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
