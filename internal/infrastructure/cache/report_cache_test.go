package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
)

func TestKey_PrefijoPorFecha(t *testing.T) {
	assert.Equal(t, "report:daily:2024-03-10", cache.Key("2024-03-10"))
}

func TestNoopReportCache_NuncaEncuentra(t *testing.T) {
	c := cache.NoopReportCache{}
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "2024-03-10", &dto.DailyReport{Date: "2024-03-10", TotalSales: decimal.NewFromInt(5)}))

	rep, found, err := c.Get(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, rep)
	assert.NoError(t, c.Delete(ctx, "2024-03-10"))
}

func TestRedisReportCache_SinServidorDevuelveError(t *testing.T) {
	client := cache.NewRedisClient("127.0.0.1:1", "", 0)
	c := cache.NewRedisReportCache(client, time.Minute)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, found, err := c.Get(ctx, "2024-03-10")
	assert.Error(t, err)
	assert.False(t, found)
}
