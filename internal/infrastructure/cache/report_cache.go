// Package cache guarda cuadres diarios ya cerrados en Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
)

var (
	_ ports.ReportCache = (*RedisReportCache)(nil)
	_ ports.ReportCache = NoopReportCache{}
)

const keyPrefix = "report:daily:"

// Key clave Redis del cuadre de una fecha.
func Key(date string) string { return keyPrefix + date }

// RedisReportCache cache de cuadres diarios en Redis (JSON con TTL).
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient crea el cliente Redis.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisReportCache construye la cache. ttl cero no expira.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{client: client, ttl: ttl}
}

// Ping verifica la conexión (health check).
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisReportCache) Get(ctx context.Context, date string) (*dto.DailyReport, bool, error) {
	val, err := c.client.Get(ctx, Key(date)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var rep dto.DailyReport
	if err := json.Unmarshal([]byte(val), &rep); err != nil {
		return nil, false, err
	}
	return &rep, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, date string, rep *dto.DailyReport) error {
	if rep == nil {
		return nil
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(date), payload, c.ttl).Err()
}

func (c *RedisReportCache) Delete(ctx context.Context, date string) error {
	return c.client.Del(ctx, Key(date)).Err()
}

// NoopReportCache se usa cuando no hay Redis configurado: nunca encuentra nada.
type NoopReportCache struct{}

func (NoopReportCache) Get(context.Context, string) (*dto.DailyReport, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(context.Context, string, *dto.DailyReport) error { return nil }

func (NoopReportCache) Delete(context.Context, string) error { return nil }
