package cluster

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	consul "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

// Announcer mantém o serviço registrado no Consul. Se o nó atual para de
// responder, ou se o agente reiniciou e esqueceu o serviço, conecta de novo
// (possivelmente em outro nó da lista) e registra outra vez.
type Announcer struct {
	addrs    string
	reg      Registration
	interval time.Duration
	logger   *zap.Logger

	mu         sync.RWMutex
	client     *consul.Client
	deregister func() error
}

// NewAnnouncer conecta e registra imediatamente.
func NewAnnouncer(addrs string, reg Registration, interval time.Duration, logger *zap.Logger) (*Announcer, error) {
	a := &Announcer{
		addrs:    addrs,
		reg:      reg,
		interval: interval,
		logger:   logger.Named("cluster"),
	}
	if err := a.reconnect(); err != nil {
		return nil, err
	}
	return a, nil
}

// Client devolve o cliente Consul em uso.
func (a *Announcer) Client() *consul.Client {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client
}

func (a *Announcer) reconnect() error {
	client, err := NewConsulClient(a.addrs, a.logger)
	if err != nil {
		return err
	}
	deregister, err := Register(client, a.reg, a.logger)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.client = client
	a.deregister = deregister
	a.mu.Unlock()
	return nil
}

// check falha se o agente não responde ou não conhece mais o serviço.
func (a *Announcer) check() error {
	client := a.Client()
	if client == nil {
		return errors.New("no consul client")
	}
	if _, err := client.Status().Leader(); err != nil {
		return fmt.Errorf("consul leader: %w", err)
	}
	svc, _, err := client.Agent().Service(a.reg.ServiceID(), nil)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", a.reg.ServiceID(), err)
	}
	if svc == nil {
		return fmt.Errorf("service %s is not registered", a.reg.ServiceID())
	}
	return nil
}

// Run vigia o registro até ctx ser cancelado e então o remove.
func (a *Announcer) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := a.check(); err != nil {
				a.logger.Warn("[Cluster] registration lost, reconnecting", zap.Error(err))
				if err := a.reconnect(); err != nil {
					a.logger.Error("[Cluster] reconnect failed", zap.Error(err))
				}
			}

		case <-ctx.Done():
			a.mu.RLock()
			deregister := a.deregister
			a.mu.RUnlock()
			if deregister != nil {
				if err := deregister(); err != nil {
					a.logger.Warn("[Cluster] deregistration failed", zap.Error(err))
				}
			}
			return
		}
	}
}
