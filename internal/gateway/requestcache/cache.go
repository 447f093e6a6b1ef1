// Package requestcache guarda respostas normalizadas recentes por
// fingerprint. O cache é apenas consultivo: com ele ligado ou
// desligado o sistema devolve os mesmos valores, só muda o número de
// idas ao remoto.
package requestcache

import (
	"container/list"
	"sync"
	"time"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

type entry struct {
	fingerprint string
	value       *domain.CallResult
	insertedAt  time.Time
	ttl         time.Duration
}

// Cache é um cache TTL com limite de entradas e descarte LRU.
// Entradas são imutáveis depois de gravadas: um hit nunca altera o
// valor guardado; um miss sempre rebusca e sobrescreve.
type Cache struct {
	mu       sync.Mutex
	enabled  bool
	capacity int
	ttl      time.Duration
	now      func() time.Time

	order   *list.List // frente = mais recente
	entries map[string]*list.Element
}

type Option func(*Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func New(enabled bool, capacity int, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		enabled:  enabled,
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Lookup devolve o valor ainda vivo para o fingerprint. Uma entrada
// nunca é servida depois de insertedAt+ttl.
func (c *Cache) Lookup(fingerprint string) (*domain.CallResult, bool) {
	if !c.enabled {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}

	ent := elem.Value.(*entry)
	if c.now().Sub(ent.insertedAt) >= ent.ttl {
		c.order.Remove(elem)
		delete(c.entries, fingerprint)
		return nil, false
	}

	c.order.MoveToFront(elem)

	return ent.value, true
}

// Store grava o valor com o TTL padrão do cache
func (c *Cache) Store(fingerprint string, value *domain.CallResult) {
	c.StoreWithTTL(fingerprint, value, c.ttl)
}

// StoreWithTTL grava o valor, sobrescrevendo a entrada anterior do
// fingerprint e descartando a menos recentemente usada quando o limite
// de entradas estoura
func (c *Cache) StoreWithTTL(fingerprint string, value *domain.CallResult, ttl time.Duration) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[fingerprint]; ok {
		c.order.Remove(elem)
		delete(c.entries, fingerprint)
	}

	ent := &entry{
		fingerprint: fingerprint,
		value:       value,
		insertedAt:  c.now(),
		ttl:         ttl,
	}
	c.entries[fingerprint] = c.order.PushFront(ent)

	for c.capacity > 0 && c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).fingerprint)
	}
}

// Clear descarta todas as entradas (uso administrativo)
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Len devolve o número de entradas, vivas ou não
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
