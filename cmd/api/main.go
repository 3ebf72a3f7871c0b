package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/auth"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/config"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/handler"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/mailer"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/repository"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/secret"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	// DATABASE_DRIVER 为 pgx 或 mysql，使用 mysql 时 DSN 需要带上 parseTime=true
	dbpool, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 创建 repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 创建临时密钥存储
	 **********************************************/
	ttl := time.Duration(cfg.Secret.TTL) * time.Second

	var secrets secret.Store
	switch cfg.Secret.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer rdb.Close()

		redisCtx, redisCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
		defer redisCancel()
		if err := rdb.Ping(redisCtx).Err(); err != nil {
			logger.Error("无法连接到 redis", "error", err)
			return
		}

		secrets, err = secret.NewRedisStore(rdb, cfg.Secret.Capacity, ttl, time.Duration(cfg.Redis.OperationExpiration)*time.Second)
	case "memory":
		secrets, err = secret.NewMemoryStore(cfg.Secret.Capacity, ttl)
	default:
		logger.Error("不支持的临时密钥存储", "backend", cfg.Secret.Backend)
		return
	}
	if err != nil {
		logger.Error("无法创建临时密钥存储", "error", err)
		return
	}

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	var publisher mailer.Publisher
	if cfg.RabbitMQ.DSN == "" {
		logger.Warn("未配置 RABBITMQ_DSN，邮件将不会被发送")
		publisher = mailer.NewLogPublisher(logger)
	} else {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("无法连接到 rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		// 建立通道
		ch, err := conn.Channel()
		if err != nil {
			logger.Error("无法建立通道", "error", err)
			return
		}
		defer ch.Close()

		// 声明队列
		if _, err := mailer.DeclareQueue(ch); err != nil {
			logger.Error("无法声明队列", "error", err)
			return
		}

		publisher = mailer.NewAMQPPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	verifier := auth.NewVerifier(repo, secrets, cfg.Secret.Digits)
	tokens, err := auth.NewTokenIssuer(cfg.JWT.Secret)
	if err != nil {
		logger.Error("无法创建令牌签发器", "error", err)
		return
	}

	handler, err := handler.NewHandler(cfg, repo, verifier, tokens, publisher)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port, "driver", cfg.Database.Driver, "secret_backend", cfg.Secret.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
