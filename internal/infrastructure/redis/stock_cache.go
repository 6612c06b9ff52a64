package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/pkg/config"
	"github.com/jhoicas/Planta-api/pkg/logger"
)

var _ ledger.StockCache = (*StockCache)(nil)

// StockCache caché de lectura de stock sobre Redis para el polling del
// dashboard. Nunca autoritativo: se invalida tras cada mutación del ledger
// y expira por TTL. Un fallo de Redis degrada a leer de la DB, nunca a error.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New conecta a Redis y devuelve el caché. Error si el ping falla.
func New(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*StockCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StockCache{client: client, ttl: ttl, log: log}, nil
}

func key(itemID, location string) string {
	return "stock:" + itemID + ":" + location
}

func (c *StockCache) Get(ctx context.Context, itemID, location string) (*entity.StockRecord, bool) {
	raw, err := c.client.Get(ctx, key(itemID, location)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Msg("stock cache get")
		}
		return nil, false
	}
	var rec entity.StockRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

func (c *StockCache) Set(ctx context.Context, record *entity.StockRecord) {
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(record.ItemID, record.Location), raw, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Msg("stock cache set")
	}
}

func (c *StockCache) Invalidate(ctx context.Context, itemID, location string) {
	if err := c.client.Del(ctx, key(itemID, location)).Err(); err != nil {
		c.log.Debug().Err(err).Msg("stock cache invalidate")
	}
}

// Close cierra la conexión.
func (c *StockCache) Close() error {
	return c.client.Close()
}
