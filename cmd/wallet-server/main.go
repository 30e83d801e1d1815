package main

import (
	"context"
	"time"

	"zksync-wallet/internal/handler"
	"zksync-wallet/internal/model"
	"zksync-wallet/internal/server"
	"zksync-wallet/internal/service"
	"zksync-wallet/internal/service/action"
	"zksync-wallet/internal/service/mq"
	"zksync-wallet/internal/service/status"
	"zksync-wallet/internal/service/tracker"
	"zksync-wallet/internal/session"

	"zksync-wallet/pkg/cache"
	"zksync-wallet/pkg/config"
	"zksync-wallet/pkg/database"
	"zksync-wallet/pkg/logger"
	"zksync-wallet/pkg/utils/lock"
	"zksync-wallet/pkg/validator"

	"go.uber.org/zap"

	_ "zksync-wallet/docs/swagger"
)

// @title zkSync Wallet API
// @version 1.0
// @description zkSync wallet actions, deposit tracking and status API

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// 0. 初始化 Config
	config.Init()

	// 初始化 Validator
	validator.Init()

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. 加载钱包私钥: Keystore 优先, 明文助记词仅限开发环境
	key, err := session.LoadKey(session.KeySource{
		KeystorePath:   config.Global.Wallet.KeystorePath,
		Password:       config.Global.Wallet.Password,
		Mnemonic:       config.Global.Wallet.Mnemonic,
		DerivationPath: config.Global.Wallet.DerivationPath,
	})
	if err != nil {
		logger.Fatal("加载钱包私钥失败 (请先运行 'wallet-cli keystore new')", zap.Error(err))
	}

	// 3. 连接数据库
	dsn := database.BuildPostgresDSN(
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)
	db, err := database.ConnectPostgres(dsn, config.Global.App.Env != "production")
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	if config.Global.App.Env == "development" {
		// 生产环境使用 cmd/migrate
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("AutoMigrate 失败", zap.Error(err))
		}
	}

	// 4. 连接 Redis
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 5. 连接 zkSync 节点 / 签名服务 / L1 节点
	sess, err := session.Open(ctx, key, session.Options{
		RpcUrl:          config.Global.ZkSync.RpcUrl,
		EthRpcUrl:       config.Global.ZkSync.EthRpcUrl,
		SignerUrl:       config.Global.ZkSync.SignerUrl,
		ContractAddress: config.Global.ZkSync.ContractAddress,
		ChainID:         config.Global.ZkSync.ChainID,
	})
	if err != nil {
		logger.Fatal("钱包初始化失败", zap.Error(err))
	}
	defer sess.Close()

	// 6. 初始化消息队列
	var producer mq.Producer
	var consumer mq.Consumer
	if config.Global.Redis.MQType == "kafka" {
		logger.Info("使用 Kafka 作为消息队列...")
		producer = mq.NewKafkaProducer(config.Global.Kafka.Brokers)
		consumer = mq.NewKafkaConsumer(config.Global.Kafka.Brokers, "wallet_status_view")
	} else {
		logger.Info("使用 Redis Streams 作为消息队列...")
		producer = mq.NewRedisProducer(rdb)
		consumer = mq.NewRedisConsumer(rdb, "wallet_status_view", "status-view-0")
	}
	defer producer.Close()
	defer consumer.Close()

	// 7. 交易跟踪
	store := tracker.NewStore(db)
	var receipts tracker.ReceiptSource
	if sess.Eth != nil {
		receipts = sess.Eth
	}
	poller := tracker.NewPoller(store, sess.Provider, receipts, config.Global.Tracker.PollInterval, config.Global.Tracker.BatchSize)
	go poller.Start(ctx)

	// 8. 消息中继
	relayService := service.NewRelayService(db, producer)
	go relayService.Start(ctx)

	// 9. 状态视图 (L1: Memory, L2: Redis)
	multiCache := cache.NewMultiLevelCache(
		cache.NewMemoryCache(1*time.Minute, 5*time.Minute),
		cache.NewRedisCache(rdb, "zksync-wallet:"),
	)
	view := status.NewView(multiCache, store, 10*time.Minute)
	go func() {
		if err := view.Run(ctx, consumer); err != nil && ctx.Err() == nil {
			logger.Error("状态视图消费失败", zap.Error(err))
		}
	}()

	// 10. 定时任务: 过期长期未终结的跟踪
	locker := lock.NewRedisLock(rdb)
	cronService := service.NewCronService(locker, store, config.Global.Tracker.ExpireSpec, config.Global.Tracker.PendingTTL)
	if err := cronService.Start(); err != nil {
		logger.Fatal("定时任务启动失败", zap.Error(err))
	}
	defer cronService.Stop()

	// 11. HTTP
	actions := action.NewService(sess.Wallet, store)
	r := server.NewHTTPRouter(
		server.RouterConfig{CorsOrigins: config.Global.App.CorsOrigins},
		handler.NewWalletHandler(actions, locker, config.Global.App.LockTTL),
		handler.NewTxHandler(view),
	)

	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, r)

	// 运行 (阻塞)
	app.Run()
	cancel()

	// 12. 退出后资源清理
	logger.Info("正在关闭数据库连接...")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	rdb.Close()
	logger.Info("系统已退出")
}
