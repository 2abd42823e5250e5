package oxidb

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Pool is a round-robin pool of OxiDB connections with keepalive and
// auto-reconnect, so a single stalled connection does not wedge every
// repository operation.
type Pool struct {
	host    string
	port    int
	timeout time.Duration
	clients []*Client
	mu      []sync.Mutex
	idx     uint64
	stop    chan struct{}
}

// NewPool dials size connections to host:port.
func NewPool(host string, port, size int, timeout time.Duration) (*Pool, error) {
	p := &Pool{
		host:    host,
		port:    port,
		timeout: timeout,
		clients: make([]*Client, size),
		mu:      make([]sync.Mutex, size),
		stop:    make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		c, err := Connect(host, port, timeout)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("oxidb: pool connect client %d: %w", i, err)
		}
		p.clients[i] = c
	}
	go p.keepalive()
	return p, nil
}

// Get returns the next client in round-robin order.
func (p *Pool) Get() *Client {
	n := atomic.AddUint64(&p.idx, 1)
	return p.clients[n%uint64(len(p.clients))]
}

func (p *Pool) reconnect(i int) {
	p.mu[i].Lock()
	defer p.mu[i].Unlock()
	if p.clients[i] != nil {
		p.clients[i].Close()
	}
	c, err := Connect(p.host, p.port, p.timeout)
	if err != nil {
		log.Printf("oxidb: pool reconnect client %d failed: %v", i, err)
		return
	}
	p.clients[i] = c
}

// Pings every connection every 10 seconds so idle timeouts surface
// here instead of inside a repository call.
func (p *Pool) keepalive() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			for i := range p.clients {
				if err := p.clients[i].Ping(); err != nil {
					log.Printf("oxidb: pool client %d ping failed, reconnecting: %v", i, err)
					p.reconnect(i)
				}
			}
		}
	}
}

// Close closes every connection in the pool.
func (p *Pool) Close() {
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	for _, c := range p.clients {
		if c != nil {
			c.Close()
		}
	}
}
