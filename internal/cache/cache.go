// Package cache es un caché en memoria con expiración por clave.
package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

const DefaultTTL = 2 * time.Minute

type item struct {
	value      any
	expiration int64
}

type Cache struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	// gen avanza con cada invalidación
	gen uint64

	stop     chan struct{}
	stopOnce sync.Once
}

// New crea un caché con el TTL por defecto y arranca la limpieza periódica.
// Un ttl <= 0 usa DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		items: make(map[string]item),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.janitor(cleanupInterval(ttl))
	return c
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return time.Minute
	}
	return ttl
}

// Set guarda un valor en caché
func (c *Cache) Set(key string, value any, ttl ...time.Duration) {
	duration := c.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		duration = ttl[0]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{
		value:      value,
		expiration: c.now().Add(duration).UnixNano(),
	}
}

// GetValue obtiene un valor del caché
func (c *Cache) GetValue(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || c.now().UnixNano() > it.expiration {
		return nil, false
	}
	return it.value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	c.gen++
}

// DeleteByPrefix elimina todas las claves que empiecen con un prefijo
func (c *Cache) DeleteByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			removed++
		}
	}
	c.gen++
	return removed
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item)
	c.gen++
}

// Generation devuelve el contador de invalidaciones; se lee antes de calcular
// un valor que luego se guarda con MarshalIfUnchanged.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Size retorna el número de items, incluidos los expirados aún no limpiados
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Marshal serializa y guarda en caché
func (c *Cache) Marshal(key string, value any, ttl ...time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.Set(key, data, ttl...)
	return nil
}

// MarshalIfUnchanged guarda el valor solo si no hubo invalidaciones desde gen.
// Devuelve false cuando el valor se descartó por estar desactualizado.
func (c *Cache) MarshalIfUnchanged(gen uint64, key string, value any, ttl ...time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	duration := c.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		duration = ttl[0]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false, nil
	}
	c.items[key] = item{
		value:      data,
		expiration: c.now().Add(duration).UnixNano(),
	}
	return true, nil
}

// Unmarshal obtiene y deserializa del caché
func (c *Cache) Unmarshal(key string, target any) (bool, error) {
	data, found := c.GetValue(key)
	if !found {
		return false, nil
	}

	raw, ok := data.([]byte)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, err
	}
	return true, nil
}

// Stop detiene la limpieza periódica. Se puede llamar más de una vez.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for key, it := range c.items {
		if now > it.expiration {
			delete(c.items, key)
		}
	}
}

func (c *Cache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}
