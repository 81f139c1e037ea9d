package main

import (
	"context"
	"os"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	kafka_config "github.com/RoyceAzure/lab/rj_kafka/kafka/config"
	kafka_producer "github.com/RoyceAzure/lab/rj_kafka/kafka/producer"
	"github.com/RoyceAzure/lab/rj_redis/pkg/redis_client"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/eventdb"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/producer"
	"github.com/RoyceAzure/lab/storefront/internal/producer/balancer"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg := config.GetConfig()
	ctx := context.Background()

	catalogRepo, orderRepo, movementRepo := buildStores(cfg, logger)
	cartRepo := buildCartRepo(cfg, logger)
	publisher := buildPublisher(cfg, logger)
	journal := buildJournal(cfg, logger)

	inventoryService := service.NewInventoryService(catalogRepo, movementRepo, publisher, logger)
	catalogService := service.NewCatalogService(catalogRepo)
	cartService := service.NewCartService(cartRepo, catalogRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, inventoryService, journal, publisher, logger)

	if err := seedCatalog(ctx, catalogService); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed catalog")
	}

	runDemo(ctx, logger, catalogService, cartService, orderService, inventoryService)
}

// postgres 有設定就落地 DB，否則走單機記憶體儲存
func buildStores(cfg *config.Config, logger zerolog.Logger) (repository.ICatalogRepository, repository.IOrderRepository, repository.IStockMovementRepository) {
	if cfg.DbHost == "" {
		logger.Info().Msg("postgres not configured, using in-memory stores")
		return memdb.NewCatalogRepo(), memdb.NewOrderRepo(), memdb.NewStockMovementRepo()
	}

	conn, err := db.NewPostgresConn(cfg.DbHost, cfg.DbPort, cfg.DbUser, cfg.DbPas, cfg.DbName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	dao := db.NewDbDao(conn)
	if err := dao.InitMigrate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate schema")
	}
	return db.NewCatalogDBRepo(dao), db.NewOrderDBRepo(dao), db.NewStockMovementDBRepo(dao)
}

func buildCartRepo(cfg *config.Config, logger zerolog.Logger) repository.ICartRepository {
	if cfg.RedisAddr == "" {
		logger.Info().Msg("redis not configured, using in-memory cart store")
		return memdb.NewCartRepo()
	}

	client, err := redis_client.GetRedisClient(cfg.RedisAddr, redis_client.WithPassword(cfg.RedisPassword))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	return redis_repo.NewCartRepo(client)
}

func buildPublisher(cfg *config.Config, logger zerolog.Logger) service.IEventPublisher {
	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		logger.Info().Msg("kafka not configured, events will not be published")
		return service.NopPublisher{}
	}

	kafkaCfg := kafka_config.DefaultConfig()
	kafkaCfg.Brokers = brokers
	kafkaCfg.Topic = cfg.KafkaTopic
	kafkaCfg.Balancer = balancer.NewOrderBalancer(0)

	p, err := kafka_producer.New(kafkaCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create kafka producer")
	}
	return producer.NewEventProducer(p)
}

func buildJournal(cfg *config.Config, logger zerolog.Logger) service.IEventJournal {
	if cfg.EventStoreURL == "" {
		logger.Info().Msg("eventstore not configured, events will not be journaled")
		return service.NopJournal{}
	}

	settings, err := esdb.ParseConnectionString(cfg.EventStoreURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("bad eventstore connection string")
	}
	client, err := esdb.NewClient(settings)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect eventstore")
	}
	return eventdb.NewEventDao(client)
}

func seedCatalog(ctx context.Context, catalog service.ICatalogService) error {
	if products, err := catalog.ListProducts(ctx); err != nil {
		return err
	} else if len(products) > 0 {
		return nil
	}

	products := []*model.Product{
		{
			ProductID: "p1", Name: "iPhone 15 Pro", Brand: "Apple",
			Description: "Titanium design with A17 Pro chip.",
			Variants: []model.Variant{
				{VariantID: "v1", Name: "128GB - Natural Titanium", Color: "Natural Titanium", Capacity: "128GB", Price: decimal.NewFromInt(999), Stock: 10},
				{VariantID: "v2", Name: "256GB - Blue Titanium", Color: "Blue Titanium", Capacity: "256GB", Price: decimal.NewFromInt(1099), Stock: 5},
			},
		},
		{
			ProductID: "p2", Name: "Galaxy S24 Ultra", Brand: "Samsung",
			Description: "AI-powered flagship with S Pen.",
			Variants: []model.Variant{
				{VariantID: "v3", Name: "256GB - Onyx Black", Color: "Onyx Black", Capacity: "256GB", Price: decimal.NewFromInt(899), Stock: 20},
				{VariantID: "v4", Name: "512GB - Marble Gray", Color: "Marble Gray", Capacity: "512GB", Price: decimal.NewFromInt(999), Stock: 2},
			},
		},
		{
			ProductID: "p3", Name: "Pixel 8 Pro", Brand: "Google",
			Description: "Google Tensor G3 with advanced camera.",
			Variants: []model.Variant{
				{VariantID: "v5", Name: "128GB - Obsidian", Color: "Obsidian", Capacity: "128GB", Price: decimal.NewFromInt(899), Stock: 0},
			},
		},
	}
	for _, product := range products {
		if err := catalog.CreateProduct(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// 跑一輪完整生命週期：加入購物車 -> 送單 -> 確認（扣庫存）-> 完成
func runDemo(
	ctx context.Context,
	logger zerolog.Logger,
	catalog service.ICatalogService,
	carts service.ICartService,
	orders service.IOrderService,
	inventory service.IInventoryService,
) {
	const userID = "u1"

	if _, err := carts.AddLine(ctx, userID, "v1", 2); err != nil {
		logger.Fatal().Err(err).Msg("add to cart failed")
	}
	if _, err := carts.AddLine(ctx, userID, "v3", 1); err != nil {
		logger.Fatal().Err(err).Msg("add to cart failed")
	}

	order, err := orders.Submit(ctx, userID, "Alice Chen", "No.7, Xinyi Rd., Taipei - 0912345678")
	if err != nil {
		logger.Fatal().Err(err).Msg("submit failed")
	}
	logger.Info().Str("order_id", order.OrderID).Str("amount", order.Amount.String()).Msg("order placed")

	if _, err := orders.Confirm(ctx, order.OrderID, &model.NoteInput{AuthorName: "staff-01", Content: "stock checked"}); err != nil {
		logger.Fatal().Err(err).Msg("confirm failed")
	}
	stock, _ := catalog.GetVariantStock(ctx, "v1")
	logger.Info().Uint("v1_stock", stock).Msg("stock after confirmation")

	if _, err := orders.Complete(ctx, order.OrderID, nil); err != nil {
		logger.Fatal().Err(err).Msg("complete failed")
	}

	movements, err := inventory.ListMovements(ctx, "v1")
	if err != nil {
		logger.Fatal().Err(err).Msg("list movements failed")
	}
	for _, movement := range movements {
		logger.Info().
			Str("variant_id", movement.VariantID).
			Int("qty_change", movement.QtyChange).
			Str("reason", movement.Reason).
			Msg("stock movement")
	}
}
