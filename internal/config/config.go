package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ============================================================================
// Constantes de Configuração Padrão
// ============================================================================
const (
	defaultServiceName    = "castle-session"
	defaultServicePort    = 8080
	defaultSeatTokenTTL   = 24 * time.Hour
	defaultDeckSize       = 30
	defaultHandLimit      = 5
	defaultTurnTimeBudget = 10 * time.Minute
	defaultReconnectGrace = 2 * time.Minute
	defaultIdleTTL        = 30 * time.Minute
	defaultFinishedTTL    = 5 * time.Minute
	defaultSweepInterval  = time.Minute
	defaultLogLevel       = "info"
)

// Config armazena todas as configurações do servidor.
type Config struct {
	ServiceName     string
	ServicePort     int
	AdvertisedHost  string
	ConsulAddr      string // vazio: sem registro no Consul
	NatsURL         string // vazio: eventos não são espelhados
	SeatTokenSecret string
	SeatTokenTTL    time.Duration
	DeckSize        int
	HandLimit       int
	TurnTimeBudget  time.Duration
	ReconnectGrace  time.Duration
	IdleTTL         time.Duration
	FinishedTTL     time.Duration
	SweepInterval   time.Duration
	LogLevel        string
	LogDevelopment  bool
	CatalogPath     string // vazio: catálogo embutido
}

// Load carrega a configuração a partir de variáveis de ambiente.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		ServiceName:     stringOr(getenv("SERVICE_NAME"), defaultServiceName),
		AdvertisedHost:  getenv("SERVICE_ADVERTISED_HOSTNAME"),
		ConsulAddr:      getenv("CONSUL_HTTP_ADDR"),
		NatsURL:         getenv("NATS_URL"),
		SeatTokenSecret: getenv("SEAT_TOKEN_SECRET"),
		LogLevel:        stringOr(getenv("LOG_LEVEL"), defaultLogLevel),
		CatalogPath:     getenv("CATALOG_PATH"),
	}
	if cfg.AdvertisedHost == "" {
		cfg.AdvertisedHost, _ = os.Hostname()
	}

	var err error
	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"SERVICE_PORT", defaultServicePort, &cfg.ServicePort},
		{"DECK_SIZE", defaultDeckSize, &cfg.DeckSize},
		{"HAND_LIMIT", defaultHandLimit, &cfg.HandLimit},
	}
	for _, v := range ints {
		if *v.dest, err = intOr(getenv(v.key), v.def); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", v.key, err)
		}
		if *v.dest <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive", v.key)
		}
	}

	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"SEAT_TOKEN_TTL", defaultSeatTokenTTL, &cfg.SeatTokenTTL},
		{"TURN_TIME_BUDGET", defaultTurnTimeBudget, &cfg.TurnTimeBudget},
		{"RECONNECT_GRACE", defaultReconnectGrace, &cfg.ReconnectGrace},
		{"IDLE_TTL", defaultIdleTTL, &cfg.IdleTTL},
		{"FINISHED_TTL", defaultFinishedTTL, &cfg.FinishedTTL},
		{"SWEEP_INTERVAL", defaultSweepInterval, &cfg.SweepInterval},
	}
	for _, v := range durations {
		if *v.dest, err = durationOr(getenv(v.key), v.def); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", v.key, err)
		}
		if *v.dest <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive", v.key)
		}
	}

	if raw := getenv("LOG_DEVELOPMENT"); raw != "" {
		if cfg.LogDevelopment, err = strconv.ParseBool(raw); err != nil {
			return nil, fmt.Errorf("invalid LOG_DEVELOPMENT: %w", err)
		}
	}
	return cfg, nil
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}
