package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-borrow/pkg/kafka"
	"github.com/Astemirdum/library-borrow/pkg/logger"
	"github.com/Astemirdum/library-borrow/pkg/postgres"
	"github.com/Astemirdum/library-borrow/pkg/redis"
	"github.com/Astemirdum/library-borrow/pkg/retry"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"BORROW_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"BORROW_HTTP_PORT" default:"5008"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

// RecordHTTPServer addresses one of the existence lookup services.
type RecordHTTPServer struct {
	Host    string
	Port    string
	Timeout time.Duration `default:"5s"`
}

type Borrow struct {
	Limit          int           `envconfig:"BORROW_LIMIT"`
	Workers        int           `envconfig:"BORROW_CONSUMER_WORKERS" default:"1"`
	ProcessTimeout time.Duration `envconfig:"BORROW_PROCESS_TIMEOUT" default:"10s"`
	StatusTTL      time.Duration `envconfig:"BORROW_STATUS_TTL" default:"24h"`
}

type Config struct {
	Server      HTTPServer       `yaml:"server"`
	Kafka       kafka.Config     `yaml:"kafka"`
	Database    postgres.DB      `yaml:"db"`
	Redis       redis.Config     `yaml:"redis"`
	UserService RecordHTTPServer `envconfig:"USER_SERVICE"`
	BookService RecordHTTPServer `envconfig:"BOOK_SERVICE"`
	Borrow      Borrow           `yaml:"borrow"`
	Startup     retry.Config     `yaml:"startup"`
	Log         logger.Log       `yaml:"log"`
}

const DefaultBorrowLimit = 5

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		config, err := Load(ops...)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

// Load applies ops and then the environment on top of them.
func Load(ops ...Option) (*Config, error) {
	config := Config{
		Borrow:      Borrow{Limit: DefaultBorrowLimit},
		UserService: RecordHTTPServer{Host: "userservice", Port: "5002"},
		BookService: RecordHTTPServer{Host: "bookservice", Port: "5006"},
	}
	for _, op := range ops {
		op(&config)
	}
	if err := envconfig.Process("", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func printConfig(cfg *Config) {
	masked := *cfg
	masked.Database.Password = "***"
	masked.Redis.Password = "***"
	jscfg, _ := json.MarshalIndent(masked, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
