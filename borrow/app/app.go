package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/borrow/config"
	"github.com/Astemirdum/library-borrow/borrow/internal/handler"
	"github.com/Astemirdum/library-borrow/borrow/internal/repository"
	"github.com/Astemirdum/library-borrow/borrow/internal/server"
	"github.com/Astemirdum/library-borrow/borrow/internal/service"
	"github.com/Astemirdum/library-borrow/borrow/internal/service/records"
	"github.com/Astemirdum/library-borrow/borrow/migrations"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
	"github.com/Astemirdum/library-borrow/pkg/logger"
	"github.com/Astemirdum/library-borrow/pkg/postgres"
	"github.com/Astemirdum/library-borrow/pkg/redis"
	"github.com/Astemirdum/library-borrow/pkg/retry"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "borrow")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var db *pgxpool.Pool
	err := retry.Do(ctx, cfg.Startup, log, "postgres", func(ctx context.Context) (err error) {
		db, err = postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
		return err
	})
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	status := repository.NewNopStatusRepository()
	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		err = retry.Do(ctx, cfg.Startup, log, "redis", func(ctx context.Context) (err error) {
			rdb, err = redis.NewClient(ctx, cfg.Redis)
			return err
		})
		if err != nil {
			log.Fatal("redis init", zap.Error(err))
		}
		status = repository.NewStatusRepository(rdb, cfg.Borrow.StatusTTL)
	} else {
		log.Info("status tracking disabled")
	}

	var producer sarama.SyncProducer
	err = retry.Do(ctx, cfg.Startup, log, "kafka producer", func(context.Context) (err error) {
		producer, err = kafka.NewProducer(cfg.Kafka)
		return err
	})
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}

	svc := service.NewService(
		repo,
		status,
		service.Records{
			Students: records.NewUsers(log, cfg.UserService),
			Books:    records.NewBooks(log, cfg.BookService),
		},
		kafka.NewEnqueuer(producer, kafka.BorrowTopic),
		cfg.Borrow.Limit,
		log.Named("service"),
	)

	workers := cfg.Borrow.Workers
	if workers < 1 {
		workers = 1
	}
	groups := make([]sarama.ConsumerGroup, 0, workers)
	for i := 0; i < workers; i++ {
		var group sarama.ConsumerGroup
		err = retry.Do(ctx, cfg.Startup, log, "kafka consumer", func(context.Context) (err error) {
			group, err = kafka.NewConsumer(cfg.Kafka, kafka.BorrowConsumerGroup)
			return err
		})
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		groups = append(groups, group)
		consumer := handler.NewConsumer(svc.Borrow, cfg.Borrow.ProcessTimeout, log.With(zap.Int("worker", i)))
		go kafka.Consume(ctx, group, consumer, log, cfg.Kafka.RejoinDelay, kafka.BorrowTopic)
	}

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	cancel()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	for _, group := range groups {
		if err := group.Close(); err != nil {
			log.Error("group.Close", zap.Error(err))
		}
	}
	if err := producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("redis.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
