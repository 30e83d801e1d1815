package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	ZkSync  ZkSyncConfig  `mapstructure:"zksync"`
	Tracker TrackerConfig `mapstructure:"tracker"`
}

type AppConfig struct {
	Env         string        `mapstructure:"env"`
	HttpPort    string        `mapstructure:"http_port"`
	CorsOrigins []string      `mapstructure:"cors_origins"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"` // 单个钱包操作锁的过期时间
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type WalletConfig struct {
	Mnemonic       string `mapstructure:"mnemonic"`
	KeystorePath   string `mapstructure:"keystore_path"`
	Password       string `mapstructure:"password"` // Keystore 密码 (通常通过环境变量 WALLET_PASSWORD 传入)
	DerivationPath string `mapstructure:"derivation_path"`
}

// ZkSyncConfig L2 节点、L1 节点与签名服务的连接参数
type ZkSyncConfig struct {
	RpcUrl          string `mapstructure:"rpc_url"`          // zkSync JSON-RPC
	EthRpcUrl       string `mapstructure:"eth_rpc_url"`      // L1 节点 (充值 / 回执查询)
	ContractAddress string `mapstructure:"contract_address"` // zkSync 主合约
	SignerUrl       string `mapstructure:"signer_url"`       // L2 签名服务
	ChainID         int64  `mapstructure:"chain_id"`
}

type TrackerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	PendingTTL   time.Duration `mapstructure:"pending_ttl"`
	ExpireSpec   string        `mapstructure:"expire_spec"`
}

var Global Config

func Init() {
	// .env 仅用于本地开发，不存在时忽略
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")      // optionally look for config in the working directory
	viper.AddConfigPath("./config")

	// 环境变量设置
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")
	viper.SetDefault("app.cors_origins", []string{"*"})
	viper.SetDefault("app.lock_ttl", 2*time.Minute)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "wallet_user")
	viper.SetDefault("db.password", "wallet_password")
	viper.SetDefault("db.name", "wallet_db")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("wallet.keystore_path", "wallet.json")
	viper.SetDefault("wallet.derivation_path", "m/44'/60'/0'/0/0")

	viper.SetDefault("zksync.rpc_url", "https://api.zksync.io/jsrpc")
	viper.SetDefault("zksync.eth_rpc_url", "https://cloudflare-eth.com")
	viper.SetDefault("zksync.contract_address", "0xaBEA9132b05A70803a4E85094fD0e1800777fBEF")
	viper.SetDefault("zksync.signer_url", "http://localhost:8545")
	viper.SetDefault("zksync.chain_id", 1)

	viper.SetDefault("tracker.poll_interval", 5*time.Second)
	viper.SetDefault("tracker.batch_size", 50)
	viper.SetDefault("tracker.pending_ttl", 24*time.Hour)
	viper.SetDefault("tracker.expire_spec", "@every 1m")
}
