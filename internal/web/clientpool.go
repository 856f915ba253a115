package web

import (
	"crypto/sha256"
	"sync"

	"labelsync/pkg/github"
)

// maxPooledClients bounds the number of distinct tokens kept at once
const maxPooledClients = 32

// clientPool reuses one GitHub client per token. Tokens are keyed by their
// SHA-256 digest. When the pool is full it is emptied before the next client
// is added.
type clientPool struct {
	mu      sync.Mutex
	max     int
	build   ClientFactory
	clients map[[sha256.Size]byte]github.APIClient
}

func newClientPool(max int, build ClientFactory) *clientPool {
	return &clientPool{
		max:     max,
		build:   build,
		clients: make(map[[sha256.Size]byte]github.APIClient),
	}
}

func (p *clientPool) get(token string) (github.APIClient, error) {
	key := sha256.Sum256([]byte(token))

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[key]; ok {
		return client, nil
	}

	client, err := p.build(token)
	if err != nil {
		return nil, err
	}

	if len(p.clients) >= p.max {
		clear(p.clients)
	}
	p.clients[key] = client
	return client, nil
}
