package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/secret"
)

type Config struct {
	Server struct {
		Port            string `env:"PORT" envDefault:"8000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		RequestTimeout  int    `env:"REQUEST_TIMEOUT" envDefault:"10"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		ExposeErrors    bool   `env:"EXPOSE_ERRORS" envDefault:"true"` // 500 响应中是否附带底层错误信息
	} `envPrefix:"SERVER_"`
	Database struct {
		Driver             string `env:"DRIVER" envDefault:"pgx"` // pgx 或 mysql
		DSN                string `env:"DSN,required,notEmpty"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		Secret string `env:"SECRET,required,notEmpty"`
	} `envPrefix:"JWT_"`
	Secret struct {
		Backend  string `env:"STORE_BACKEND" envDefault:"memory"` // memory 或 redis
		TTL      int    `env:"TTL" envDefault:"300"`
		Capacity int    `env:"CAPACITY" envDefault:"100"`
		Digits   int    `env:"DIGITS" envDefault:"7"`
	} `envPrefix:"SECRET_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"` // 单次 redis 操作的超时时间，单位为秒
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"` // 为空时不发送邮件，只记录日志
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
		TemplateDir string `env:"TEMPLATE_DIR" envDefault:"./templates"`
	} `envPrefix:"EMAIL_"`
	CORS struct {
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	} `envPrefix:"CORS_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD" envDefault:"crew123456"`
		} `envPrefix:"USER_"`
		EmailDomain string `env:"EMAIL_DOMAIN" envDefault:"crew.example.com"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	// .env 文件是可选的，生产环境直接使用环境变量
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate 检查 env 标签无法表达的取值范围
func (cfg *Config) validate() error {
	switch {
	case cfg.Database.Driver != "pgx" && cfg.Database.Driver != "mysql":
		return fmt.Errorf("DATABASE_DRIVER 只能是 pgx 或 mysql，当前为 %q", cfg.Database.Driver)
	case cfg.Secret.Backend != "memory" && cfg.Secret.Backend != "redis":
		return fmt.Errorf("SECRET_STORE_BACKEND 只能是 memory 或 redis，当前为 %q", cfg.Secret.Backend)
	case cfg.Secret.TTL <= 0:
		return fmt.Errorf("SECRET_TTL 必须大于 0，当前为 %d", cfg.Secret.TTL)
	case cfg.Secret.Capacity <= 0:
		return fmt.Errorf("SECRET_CAPACITY 必须大于 0，当前为 %d", cfg.Secret.Capacity)
	case cfg.Secret.Digits < 1 || cfg.Secret.Digits > secret.MaxDigits:
		return fmt.Errorf("SECRET_DIGITS 必须在 1 到 %d 之间，当前为 %d", secret.MaxDigits, cfg.Secret.Digits)
	}
	return nil
}
