package enrichment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

// AirlineCache stores airline metadata by IATA code. Concurrent writers of the
// same code store identical values.
type AirlineCache interface {
	Get(code string) (dto.Airline, bool, error)
	Set(code string, airline dto.Airline) error
}

// BadgerAirlineCache keeps metadata in an in-memory badger store with a per entry TTL.
type BadgerAirlineCache struct {
	db  *badger.DB
	ttl time.Duration
}

func NewBadgerAirlineCache(ttl time.Duration) (*BadgerAirlineCache, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open airline cache: %w", err)
	}

	return &BadgerAirlineCache{db: db, ttl: ttl}, nil
}

func airlineKey(code string) []byte {
	return []byte("airline:" + strings.ToUpper(code))
}

func (c *BadgerAirlineCache) Get(code string) (dto.Airline, bool, error) {
	var airline dto.Airline

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(airlineKey(code))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &airline)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return dto.Airline{}, false, nil
	} else if err != nil {
		return dto.Airline{}, false, fmt.Errorf("read airline %s: %w", code, err)
	}

	return airline, true, nil
}

func (c *BadgerAirlineCache) Set(code string, airline dto.Airline) error {
	jsn, err := json.Marshal(airline)
	if err != nil {
		return fmt.Errorf("marshal airline %s: %w", code, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(airlineKey(code), jsn)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}

		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("store airline %s: %w", code, err)
	}

	return nil
}

func (c *BadgerAirlineCache) Close() error {
	return c.db.Close()
}

// NoopAirlineCache never stores anything. Every lookup goes to the fetcher.
type NoopAirlineCache struct{}

func (NoopAirlineCache) Get(string) (dto.Airline, bool, error) {
	return dto.Airline{}, false, nil
}

func (NoopAirlineCache) Set(string, dto.Airline) error {
	return nil
}
