package cluster

import (
	"fmt"

	consul "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

// Registration descreve como este processo aparece no catálogo do Consul.
type Registration struct {
	Name     string
	Host     string // hostname resolvível pelo agente; vira parte do ID
	Port     int
	Tags     []string
	Interval string
	Timeout  string
}

func (r Registration) ServiceID() string {
	return fmt.Sprintf("%s-%s", r.Name, r.Host)
}

func (r Registration) agentRegistration() *consul.AgentServiceRegistration {
	interval, timeout := r.Interval, r.Timeout
	if interval == "" {
		interval = "10s"
	}
	if timeout == "" {
		timeout = "5s"
	}
	return &consul.AgentServiceRegistration{
		ID:      r.ServiceID(),
		Name:    r.Name,
		Port:    r.Port,
		Address: r.Host,
		Tags:    r.Tags,
		Check: &consul.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%d/health", r.Host, r.Port),
			Timeout:  timeout,
			Interval: interval,
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// Register anuncia o serviço e devolve a função que o remove no shutdown.
func Register(client *consul.Client, reg Registration, logger *zap.Logger) (func() error, error) {
	agentReg := reg.agentRegistration()
	if err := client.Agent().ServiceRegister(agentReg); err != nil {
		return nil, fmt.Errorf("register %s in consul: %w", agentReg.ID, err)
	}
	logger.Info("[Cluster] service registered", zap.String("service_id", agentReg.ID), zap.Int("port", reg.Port))

	return func() error {
		if err := client.Agent().ServiceDeregister(agentReg.ID); err != nil {
			return fmt.Errorf("deregister %s: %w", agentReg.ID, err)
		}
		logger.Info("[Cluster] service deregistered", zap.String("service_id", agentReg.ID))
		return nil
	}, nil
}
