package config

import (
	"log"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

var configSingleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ModulerName   string `mapstructure:"MODULER_NAME"`
	DbName        string `mapstructure:"POSTGRES_DB"`
	DbHost        string `mapstructure:"POSTGRES_HOST"`
	DbPort        string `mapstructure:"POSTGRES_PORT"`
	DbUser        string `mapstructure:"POSTGRES_USER"`
	DbPas         string `mapstructure:"POSTGRES_PASSWORD"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	KafkaBrokers  string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic    string `mapstructure:"KAFKA_TOPIC"`
	EventStoreURL string `mapstructure:"EVENTSTORE_URL"`
}

// Brokers 逗號分隔轉 slice
func (c *Config) Brokers() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	return strings.Split(c.KafkaBrokers, ",")
}

func GetConfig() *Config {
	initConfig()
	configSingleton.mu.RLock()
	defer configSingleton.mu.RUnlock()
	return configSingleton.Config
}

func initConfig() {
	if configSingleton == nil {
		muonce.Do(func() {
			configSingleton = &ConfigSingleTon{}
			if cf, err := loadConfig(); err == nil {
				configSingleton.Config = cf
			} else {
				log.Fatal("error read config")
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				if cf, err := loadConfig(); err == nil {
					configSingleton.mu.Lock()
					configSingleton.Config = cf
					configSingleton.mu.Unlock()
				} else {
					log.Panic("failed to reload config file")
				}
			})
		})
	}
}

/*
單純回傳錯誤  由外部決定要不要Fatal, 畢竟有可能有替代方案
*/
func loadConfig() (cf *Config, err error) {
	cf = &Config{}
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// .env 不存在時仍可全走環境變數
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("config file not loaded: %v", err)
		}
		err = nil
	}

	if err = viper.Unmarshal(cf); err != nil {
		return nil, err
	}
	return cf, nil
}
