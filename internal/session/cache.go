package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"craftfolio_backend/internal/models"
)

// CachedIdentity - слепок личности пользователя, переживающий рестарт.
// Позволяет мгновенно показать залогиненное состояние до сетевой проверки.
type CachedIdentity struct {
	Profile     models.Profile `json:"profile"`
	AccessToken string         `json:"access_token"`
}

// Cache - локальное хранилище слепка сессии.
// Все реализации fail-soft: битые данные считаются отсутствующими.
type Cache interface {
	// Load возвращает (nil, nil) если слепка нет или он нечитаем
	Load() (*CachedIdentity, error)
	Save(identity *CachedIdentity) error
	Clear() error
}

// FileCache хранит слепок одним JSON-файлом
type FileCache struct {
	mu   sync.Mutex
	path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (c *FileCache) Load() (*CachedIdentity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, nil
	}
	var identity CachedIdentity
	if err := json.Unmarshal(raw, &identity); err != nil {
		// Битый слепок молча выбрасываем - поведение как при пустом кеше
		_ = os.Remove(c.path)
		return nil, nil
	}
	if identity.Profile.ID == "" {
		return nil, nil
	}
	return &identity, nil
}

func (c *FileCache) Save(identity *CachedIdentity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o600)
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryCache - хранилище в памяти, для тестов
type MemoryCache struct {
	mu       sync.Mutex
	identity *CachedIdentity
}

func NewMemoryCache() *MemoryCache { return &MemoryCache{} }

func (c *MemoryCache) Load() (*CachedIdentity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return nil, nil
	}
	cp := *c.identity
	return &cp, nil
}

func (c *MemoryCache) Save(identity *CachedIdentity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *identity
	c.identity = &cp
	return nil
}

func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = nil
	return nil
}
