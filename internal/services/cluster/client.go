package cluster

import (
	"fmt"
	"strings"

	consul "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

// NewConsulClient tenta cada endereço da lista (separada por vírgula) até
// achar um agente que responda com um líder eleito.
func NewConsulClient(addrs string, logger *zap.Logger) (*consul.Client, error) {
	for _, node := range strings.Split(addrs, ",") {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}
		cfg := consul.DefaultConfig()
		cfg.Address = node

		client, err := consul.NewClient(cfg)
		if err != nil {
			logger.Warn("[Cluster] consul client failed", zap.String("addr", node), zap.Error(err))
			continue
		}
		if _, err := client.Status().Leader(); err != nil {
			logger.Warn("[Cluster] consul node did not answer", zap.String("addr", node), zap.Error(err))
			continue
		}

		logger.Info("[Cluster] connected to consul", zap.String("addr", node))
		return client, nil
	}
	return nil, fmt.Errorf("no consul node available in %q", addrs)
}
