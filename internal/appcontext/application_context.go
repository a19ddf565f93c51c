package appcontext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/config"
	"github.com/RoyceAzure/lab/eventro/internal/constants"
	"github.com/RoyceAzure/lab/eventro/internal/infra/cache"
	"github.com/RoyceAzure/lab/eventro/internal/infra/catalog"
	"github.com/RoyceAzure/lab/eventro/internal/infra/consumer"
	"github.com/RoyceAzure/lab/eventro/internal/infra/payment"
	"github.com/RoyceAzure/lab/eventro/internal/infra/producer"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/session_repo"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/ratelimit"
	"github.com/RoyceAzure/lab/eventro/internal/service"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ApplicationContext struct {
	Cf     *config.Config
	Logger zerolog.Logger

	RedisClient *redis.Client
	Store       cache.Store
	Memcached   *memcache.Client
	DbDao       *db.DbDao
	OrderRepo   *db.OrderRepo
	ListingRepo *db.ListingRepo
	Provider    *catalog.Provider

	CartProducer  producer.Producer
	OrderProducer producer.Producer
	OrderConsumer consumer.IBaseConsumer
	Gateway       *payment.SimulatedGateway
	Limiter       ratelimit.Limiter
	tokenBucket   *ratelimit.TokenBucket

	ListingService      service.IListingService
	LocationService     service.ILocationService
	CartService         service.ICartService
	CheckoutService     service.ICheckoutService
	MessageService      service.IMessageService
	OrderHistoryService service.IOrderHistoryService
}

func NewApplicationContext(ctx context.Context, cf *config.Config) (*ApplicationContext, error) {
	if cf == nil {
		panic("application context dependency config is nil")
	}
	app := ApplicationContext{
		Cf:     cf,
		Logger: NewLogger(cf),
	}
	if err := app.Init(ctx); err != nil {
		// 已建立的連線要釋放
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cf.ShutdownGrace)
		defer cancel()
		if shutdownErr := app.Shutdown(shutdownCtx); shutdownErr != nil {
			app.Logger.Warn().Err(shutdownErr).Msg("failed to release resources after init error")
		}
		return nil, err
	}
	return &app, nil
}

// NewLogger 同時設定 zerolog 全域 logger 與 level
func NewLogger(cf *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cf.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if cf.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	logger = logger.With().Timestamp().Str("service", "eventro").Str("env", cf.Env).Logger()
	log.Logger = logger
	return logger
}

func (app *ApplicationContext) Init(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"session store", app.setUpStore},
		{"database", app.setUpDb},
		{"catalog", app.setUpCatalog},
		{"kafka producer", app.setUpProducers},
		{"payment gateway", app.setUpGateway},
		{"rate limiter", app.setUpLimiter},
		{"services", app.setUpServices},
		{"order consumer", app.setUpConsumer},
	}
	for _, step := range steps {
		app.Logger.Info().Str("step", step.name).Msg("start setup")
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("setup %s failed: %w", step.name, err)
		}
		app.Logger.Info().Str("step", step.name).Msg("finish setup")
	}
	return nil
}

// setUpStore 有 REDIS_ADDR 時使用 redis，否則使用單機記憶體
func (app *ApplicationContext) setUpStore(ctx context.Context) error {
	if !app.Cf.HasRedis() {
		app.Logger.Warn().Msg("REDIS_ADDR not set, session state is kept in memory")
		app.Store = cache.NewLocalStore(app.Cf.LocalStoreSweep)
		return nil
	}
	client, err := cache.NewRedisClient(ctx, app.Cf.RedisAddr,
		cache.WithPassword(app.Cf.RedisPassword),
		cache.WithDB(app.Cf.RedisDB),
		cache.WithPoolSize(app.Cf.RedisPoolSize),
	)
	if err != nil {
		return err
	}
	app.RedisClient = client
	app.Store = cache.NewRedisStore(client, app.Cf.RedisPrefix)
	return nil
}

func (app *ApplicationContext) setUpDb(ctx context.Context) error {
	if !app.Cf.HasDatabase() {
		return nil
	}
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbDao = db.NewDbDao(conn)
	if err := app.DbDao.InitMigrate(); err != nil {
		return err
	}
	app.OrderRepo = db.NewOrderRepo(app.DbDao)
	app.ListingRepo = db.NewListingRepo(app.DbDao)
	return nil
}

/*
setUpCatalog 依 CATALOG_SOURCE 選擇主要來源
  - file: CATALOG_DIR 下的 JSON
  - db: postgres，SEED_CATALOG 時先以 JSON 或內建資料寫入
  - none: 只使用內建資料
*/
func (app *ApplicationContext) setUpCatalog(ctx context.Context) error {
	var source catalog.Source
	switch app.Cf.CatalogSource {
	case config.CatalogSourceFile:
		source = catalog.NewFileSource(app.Cf.CatalogDir)
	case config.CatalogSourceDB:
		if app.ListingRepo == nil {
			return errors.New("CATALOG_SOURCE=db requires postgres config")
		}
		if app.Cf.SeedCatalog {
			if err := app.seedCatalog(ctx); err != nil {
				return err
			}
		}
		source = app.ListingRepo
	case config.CatalogSourceNone, "":
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", app.Cf.CatalogSource)
	}
	app.Provider = catalog.NewProvider(source, app.Logger)

	snapshot := app.Provider.LoadAll(ctx)
	app.Logger.Info().
		Int("listings", len(snapshot.Listings.Data)).
		Int("categories", len(snapshot.Categories.Data)).
		Bool("degraded", snapshot.Degraded()).
		Msg("catalog loaded")
	return nil
}

func (app *ApplicationContext) seedCatalog(ctx context.Context) error {
	snapshot := catalog.NewProvider(catalog.NewFileSource(app.Cf.CatalogDir), app.Logger).LoadAll(ctx)
	if err := app.ListingRepo.SaveCategories(ctx, snapshot.Categories.Data); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := app.ListingRepo.SaveLocations(ctx, snapshot.Locations.Data); err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}
	if err := app.ListingRepo.SaveListings(ctx, snapshot.Listings.Data); err != nil {
		return fmt.Errorf("seed listings: %w", err)
	}
	app.Logger.Info().Int("listings", len(snapshot.Listings.Data)).Bool("fallback", snapshot.Degraded()).Msg("catalog seeded")
	return nil
}

func (app *ApplicationContext) setUpProducers(ctx context.Context) error {
	if !app.Cf.HasKafka() {
		return nil
	}
	cartProducer, err := producer.New(producer.Config{
		Brokers: app.Cf.Brokers(),
		Topic:   constants.CartEventsTopic,
	}, app.Logger)
	if err != nil {
		return err
	}
	app.CartProducer = cartProducer

	orderProducer, err := producer.New(producer.Config{
		Brokers: app.Cf.Brokers(),
		Topic:   constants.OrderEventsTopic,
	}, app.Logger)
	if err != nil {
		return err
	}
	app.OrderProducer = orderProducer
	return nil
}

func (app *ApplicationContext) setUpGateway(ctx context.Context) error {
	app.Gateway = payment.NewSimulatedGateway(
		payment.WithLatency(app.Cf.PaymentLatency),
		payment.WithTimeout(app.Cf.PaymentTimeout),
		payment.WithOutcome(payment.Outcome(app.Cf.PaymentOutcome)),
	)
	return nil
}

// setUpLimiter 有 redis 時多個實例共用 bucket
func (app *ApplicationContext) setUpLimiter(ctx context.Context) error {
	cfg := ratelimit.Config{
		Capacity:   app.Cf.RateLimitCapacity,
		RatePS:     app.Cf.RateLimitRate,
		RefillRate: app.Cf.RateLimitRefill,
	}
	if app.RedisClient != nil {
		app.Limiter = ratelimit.NewRedisTokenBucket(app.RedisClient, cfg, app.Logger)
		return nil
	}
	app.tokenBucket = ratelimit.NewTokenBucket(cfg)
	app.Limiter = app.tokenBucket
	return nil
}

func (app *ApplicationContext) setUpServices(ctx context.Context) error {
	ttl := app.Cf.SessionTTL
	cartRepo := session_repo.NewCartRepo(app.Store, ttl)
	lastOrderRepo := session_repo.NewLastOrderRepo(app.Store, ttl)
	threadRepo := session_repo.NewThreadRepo(app.Store, ttl)

	if app.OrderRepo != nil {
		if err := seedOrderSequence(ctx, app.OrderRepo, lastOrderRepo, app.Logger); err != nil {
			return err
		}
	}

	var searchOpts []cache.SearchCacheOption[service.SearchEntry]
	if addrs := app.Cf.MemcachedAddrs(); len(addrs) > 0 {
		app.Memcached = memcache.New(addrs...)
		searchOpts = append(searchOpts, service.WithSearchMemcached(app.Memcached))
	}
	searchCache := service.NewSearchCache(app.Cf.SearchCacheSize, app.Logger, searchOpts...)
	app.ListingService = service.NewListingService(app.Provider, searchCache, app.Logger)
	app.LocationService = service.NewLocationService(app.Provider)

	var cartPublisher producer.EventPublisher
	if app.CartProducer != nil {
		cartPublisher = producer.NewEventProducer(app.CartProducer)
	}
	app.CartService = service.NewCartService(cartRepo, cartPublisher, app.Logger)

	var opts []service.CheckoutOption
	switch {
	case app.OrderProducer != nil:
		opts = append(opts, service.WithOrderPublisher(producer.NewEventProducer(app.OrderProducer)))
	case app.OrderRepo != nil:
		opts = append(opts, service.WithOrderRecorder(app.OrderRepo))
	}
	app.CheckoutService = service.NewCheckoutService(app.CartService, cartRepo, lastOrderRepo, app.Gateway, app.Logger, opts...)

	app.MessageService = service.NewMessageService(threadRepo, app.Logger, service.WithReplyDelay(app.Cf.MessageReplyDelay))

	if app.OrderRepo != nil {
		app.OrderHistoryService = service.NewOrderHistoryService(app.OrderRepo)
	}
	return nil
}

type orderSequenceSource interface {
	MaxOrderSequence(ctx context.Context) (int64, error)
}

type orderSequenceSeeder interface {
	SeedOrderSequence(ctx context.Context, floor int64) (int64, error)
}

// seedOrderSequence 以 postgres 已有的最大編號墊高計數器，重啟或換 store 後編號仍遞增
func seedOrderSequence(ctx context.Context, source orderSequenceSource, seeder orderSequenceSeeder, logger zerolog.Logger) error {
	floor, err := source.MaxOrderSequence(ctx)
	if err != nil {
		return err
	}
	current, err := seeder.SeedOrderSequence(ctx, floor)
	if err != nil {
		return fmt.Errorf("failed to seed order sequence: %w", err)
	}
	logger.Info().Int64("stored_max", floor).Int64("sequence", current).Msg("order sequence seeded")
	return nil
}

// setUpConsumer kafka 與 postgres 都有設定時才需要投影訂單
func (app *ApplicationContext) setUpConsumer(ctx context.Context) error {
	if !app.Cf.HasKafka() || app.OrderRepo == nil {
		return nil
	}
	reader := consumer.NewKafkaReader(consumer.ReaderConfig{
		Brokers: app.Cf.Brokers(),
		Topic:   constants.OrderEventsTopic,
		GroupID: app.Cf.KafkaGroupID,
	})
	app.OrderConsumer = consumer.NewOrderEventConsumer(
		reader,
		consumer.NewOrderProjectionHandler(app.OrderRepo),
		app.Logger.With().Str("consumer", constants.OrderProjectorID).Logger(),
	)
	return nil
}

// Start 啟動背景工作
func (app *ApplicationContext) Start(ctx context.Context) error {
	if app.OrderConsumer != nil {
		if err := app.OrderConsumer.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ApplyConfig 設定檔熱更新時只套用可在執行中變更的項目
func (app *ApplicationContext) ApplyConfig(cf *config.Config) {
	if level, err := zerolog.ParseLevel(strings.ToLower(cf.LogLevel)); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}
	if app.Gateway != nil {
		app.Gateway.SetOutcome(payment.Outcome(cf.PaymentOutcome))
	}
	app.Logger.Info().Str("log_level", cf.LogLevel).Str("payment_outcome", cf.PaymentOutcome).Msg("config applied")
}

// Shutdown 依建立的相反順序釋放，所有錯誤合併回傳
func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	var errs []error

	if app.OrderConsumer != nil {
		app.OrderConsumer.Stop()
	}
	if app.MessageService != nil {
		app.MessageService.Close()
	}
	if app.tokenBucket != nil {
		app.tokenBucket.Stop()
	}
	for _, p := range []producer.Producer{app.CartProducer, app.OrderProducer} {
		if p != nil {
			errs = append(errs, p.Close())
		}
	}
	if app.DbDao != nil {
		errs = append(errs, app.DbDao.Close())
	}
	if app.Store != nil {
		errs = append(errs, app.Store.Close())
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	return ctx.Err()
}
