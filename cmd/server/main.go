package main

import (
	"castle/internal/config"
	"castle/internal/game/card"
	"castle/internal/game/match"
	"castle/internal/logging"
	"castle/internal/network"
	"castle/internal/services/cluster"
	"castle/internal/services/events"
	"castle/internal/services/gameroom"
	"castle/internal/session"
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// app junta as peças que main liga e desliga.
type app struct {
	registry *gameroom.Registry
	server   *network.Server
	mux      *http.ServeMux
}

func rulesFrom(cfg *config.Config) match.Rules {
	rules := match.DefaultRules()
	rules.DeckSize = cfg.DeckSize
	rules.HandLimit = cfg.HandLimit
	rules.TurnTimeBudget = cfg.TurnTimeBudget
	rules.ReconnectGrace = cfg.ReconnectGrace
	return rules
}

// registration descreve este nó no Consul.
func registration(cfg *config.Config) cluster.Registration {
	return cluster.Registration{
		Name: cfg.ServiceName,
		Host: cfg.AdvertisedHost,
		Port: cfg.ServicePort,
		Tags: []string{"websocket"},
	}
}

func newApp(cfg *config.Config, catalog *card.Catalog, publisher events.Publisher, logger *zap.Logger) *app {
	rules := rulesFrom(cfg)
	presence := session.NewPresence()

	registry := gameroom.NewRegistry(func(id string, now time.Time) *match.Session {
		// cada sessão tem seu próprio gerador: só a goroutine da sala o usa
		return match.NewSession(id, match.Config{
			Rules:   rules,
			Catalog: catalog,
			Rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
			Logger:  logger.Named("match"),
		}, now)
	}, gameroom.Options{
		IdleTTL:       cfg.IdleTTL,
		FinishedTTL:   cfg.FinishedTTL,
		SweepInterval: cfg.SweepInterval,
		Logger:        logger,
		OnRemove:      presence.Forget,
	})

	var nodeID string
	if cfg.ConsulAddr != "" {
		nodeID = registration(cfg).ServiceID()
	}
	handler := session.NewGameHandler(session.HandlerConfig{
		Rooms:      registry,
		Presence:   presence,
		Dispatcher: session.NewDispatcher(presence, publisher, logger),
		Tokens:     session.NewSeatTokens(cfg.SeatTokenSecret, cfg.SeatTokenTTL),
		Logger:     logger,
		NodeID:     nodeID,
	})
	server := network.NewServer(handler, logger)

	health := cluster.NewHealthAggregator(2 * time.Second)
	health.AddCheck("registry", func(ctx context.Context) error {
		_, err := registry.Len(ctx)
		return err
	})
	if checker, ok := publisher.(interface{ Check() error }); ok {
		health.AddCheck("events", func(context.Context) error { return checker.Check() })
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", server)
	mux.HandleFunc("/health", health.Handler())
	session.RegisterHandlers(mux, registry, logger)

	return &app{registry: registry, server: server, mux: mux}
}

// start sobe os atores; o WaitGroup termina quando ctx é cancelado.
func (a *app) start(ctx context.Context) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.registry.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.server.Run(ctx)
	}()
	return &wg
}

func loadCatalog(path string) (*card.Catalog, error) {
	if path == "" {
		return card.Default()
	}
	return card.LoadCatalogFile(path)
}

func main() {
	// 1. CARREGA A CONFIGURAÇÃO
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fatal: failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Fatal: failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("[Main] server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("[Main] configuration loaded",
		zap.String("service", cfg.ServiceName), zap.Int("port", cfg.ServicePort),
		zap.Int("deck_size", cfg.DeckSize), zap.Duration("turn_budget", cfg.TurnTimeBudget))

	if cfg.SeatTokenSecret == "" {
		// tokens não sobrevivem a um restart, assim como as sessões
		cfg.SeatTokenSecret = uuid.NewString()
		logger.Warn("[Main] SEAT_TOKEN_SECRET not set, using a random per-process secret")
	}

	// 2. INICIA A LÓGICA DO JOGO
	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load card catalog: %w", err)
	}
	logger.Info("[Main] card catalog loaded", zap.Int("cards", catalog.Len()))

	var publisher events.Publisher = events.Nop{}
	if cfg.NatsURL != "" {
		nats, err := events.Connect(cfg.NatsURL, logger)
		if err != nil {
			return err
		}
		publisher = nats
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, catalog, publisher, logger)
	actors := a.start(ctx)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.ServicePort),
		Handler:           a.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("[Main] listening", zap.String("addr", httpServer.Addr))
		serveErr <- httpServer.ListenAndServe()
	}()

	// 3. REGISTRA O SERVIÇO NO CONSUL
	var announced sync.WaitGroup
	defer announced.Wait()
	if cfg.ConsulAddr != "" {
		announcer, err := cluster.NewAnnouncer(cfg.ConsulAddr, registration(cfg), 15*time.Second, logger)
		if err != nil {
			stop()
			actors.Wait()
			return err
		}
		announced.Add(1)
		go func() {
			defer announced.Done()
			announcer.Run(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("[Main] shutdown requested")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			stop()
			actors.Wait()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("[Main] http shutdown incomplete", zap.Error(err))
	}
	stop()
	actors.Wait()
	logger.Info("[Main] bye")
	return nil
}
