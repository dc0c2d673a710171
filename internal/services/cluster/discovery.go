package cluster

import (
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"

	consul "github.com/hashicorp/consul/api"
)

// Discover devolve host:porta de uma instância saudável, escolhida ao acaso.
// Cada sessão vive em um único nó, então o cliente que vai dar rejoin precisa
// voltar ao mesmo endereço: use DiscoverInstance nesse caso.
func Discover(client *consul.Client, serviceName string) (string, error) {
	entries, err := healthy(client, serviceName)
	if err != nil {
		return "", err
	}
	return address(entries[rand.IntN(len(entries))]), nil
}

// DiscoverInstance procura uma instância pelo ID do serviço.
func DiscoverInstance(client *consul.Client, serviceName, serviceID string) (string, error) {
	entries, err := healthy(client, serviceName)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Service.ID == serviceID {
			return address(e), nil
		}
	}
	return "", fmt.Errorf("instance %s of %s is not healthy", serviceID, serviceName)
}

func healthy(client *consul.Client, serviceName string) ([]*consul.ServiceEntry, error) {
	entries, _, err := client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", serviceName, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no healthy instance of %s", serviceName)
	}
	return entries, nil
}

func address(e *consul.ServiceEntry) string {
	host := e.Service.Address
	if host == "" {
		host = e.Node.Address
	}
	return net.JoinHostPort(host, strconv.Itoa(e.Service.Port))
}
