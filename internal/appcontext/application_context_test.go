package appcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/config"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/cache"
	"github.com/RoyceAzure/lab/eventro/internal/infra/payment"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/session_repo"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/ratelimit"
	"github.com/RoyceAzure/lab/eventro/internal/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cf, err := config.LoadConfig(viper.New(), "")
	require.NoError(t, err)
	cf.CatalogSource = config.CatalogSourceNone
	cf.RedisAddr = ""
	cf.DbHost = ""
	cf.KafkaBrokers = ""
	cf.MemcachedServers = ""
	cf.PaymentLatency = 0
	cf.LogLevel = "error"
	return cf
}

func TestApplicationContextInMemory(t *testing.T) {
	ctx := context.Background()
	app, err := NewApplicationContext(ctx, testConfig(t))
	require.NoError(t, err)

	assert.IsType(t, &cache.LocalStore{}, app.Store)
	assert.IsType(t, &ratelimit.TokenBucket{}, app.Limiter)
	assert.Nil(t, app.DbDao)
	assert.Nil(t, app.CartProducer)
	assert.Nil(t, app.OrderConsumer)
	assert.Nil(t, app.OrderHistoryService)
	assert.NotNil(t, app.ListingService)
	assert.NotNil(t, app.LocationService)
	assert.NotNil(t, app.CartService)
	assert.NotNil(t, app.CheckoutService)
	assert.NotNil(t, app.MessageService)

	res, err := app.ListingService.Search(ctx, searchAll())
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, 6, res.TotalListings)

	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Shutdown(ctx))
}

func TestApplicationContextRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cf := testConfig(t)
	cf.RedisAddr = mr.Addr()

	ctx := context.Background()
	app, err := NewApplicationContext(ctx, cf)
	require.NoError(t, err)

	assert.IsType(t, &cache.RedisStore{}, app.Store)
	assert.IsType(t, &ratelimit.RedisTokenBucket{}, app.Limiter)
	assert.True(t, app.Limiter.Allow(ctx, "session-1"))

	cart, err := app.CartService.Open(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	require.NoError(t, app.Shutdown(ctx))
}

func TestApplicationContextRedisUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cf := testConfig(t)
	cf.RedisAddr = mr.Addr()
	mr.Close()

	_, err = NewApplicationContext(context.Background(), cf)
	assert.Error(t, err)
}

func TestApplicationContextUnknownCatalogSource(t *testing.T) {
	cf := testConfig(t)
	cf.CatalogSource = "s3"
	_, err := NewApplicationContext(context.Background(), cf)
	assert.ErrorContains(t, err, "s3")
}

func TestApplicationContextDbCatalogRequiresDatabase(t *testing.T) {
	cf := testConfig(t)
	cf.CatalogSource = config.CatalogSourceDB
	_, err := NewApplicationContext(context.Background(), cf)
	assert.Error(t, err)
}

func TestApplyConfig(t *testing.T) {
	ctx := context.Background()
	app, err := NewApplicationContext(ctx, testConfig(t))
	require.NoError(t, err)
	defer app.Shutdown(ctx)

	updated := *app.Cf
	updated.PaymentOutcome = string(payment.OutcomeDeclined)
	app.ApplyConfig(&updated)

	_, err = app.Gateway.Charge(ctx, payment.ChargeRequest{SessionID: "session-1", Amount: 1000})
	assert.ErrorIs(t, err, payment.ErrDeclined)
}

type stubSequenceSource struct {
	max int64
	err error
}

func (s stubSequenceSource) MaxOrderSequence(ctx context.Context) (int64, error) {
	return s.max, s.err
}

func TestSeedOrderSequence(t *testing.T) {
	ctx := context.Background()
	store := cache.NewLocalStore(time.Minute)
	defer store.Close()
	repo := session_repo.NewLastOrderRepo(store, 0)

	// 模擬重啟: 記憶體計數器從 0 開始，postgres 已有 41 號
	require.NoError(t, seedOrderSequence(ctx, stubSequenceSource{max: 41}, repo, zerolog.Nop()))
	next, err := repo.NextOrderSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), next)

	assert.Error(t, seedOrderSequence(ctx, stubSequenceSource{err: errors.New("db down")}, repo, zerolog.Nop()))
}

func searchAll() service.SearchRequest {
	return service.SearchRequest{Filter: model.NewFilterState(), Page: 1}
}
