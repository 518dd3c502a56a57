package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/openfiscal/refi-cost-service/internal/infrastructure/logger"
)

// BadgerCache persists cached observations across restarts using BadgerDB's
// native entry TTLs. Expiry granularity is one second, which is far below
// the TTLs this service uses.
type BadgerCache struct {
	db     *badger.DB
	logger logger.Logger
}

// NewBadgerCache creates an observation cache on top of an open BadgerDB
func NewBadgerCache(db *badger.DB, log logger.Logger) *BadgerCache {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &BadgerCache{
		db:     db,
		logger: log,
	}
}

// Get retrieves an observation if present and not expired. Backend read
// failures degrade to a miss.
func (c *BadgerCache) Get(key string) (*entity.Observation, bool) {
	var obs entity.Observation

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &obs)
		})
	})

	if err == badger.ErrKeyNotFound {
		return nil, false
	}

	if err != nil {
		c.logger.Warn("Cache read failed, treating as miss", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	return &obs, true
}

// Set stores an observation under key for the given TTL
func (c *BadgerCache) Set(key string, obs *entity.Observation, ttl time.Duration) error {
	data, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("failed to marshal observation: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})

	if err != nil {
		return fmt.Errorf("failed to store observation: %w", err)
	}

	return nil
}

// Close closes the underlying database
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
