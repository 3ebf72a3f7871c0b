package mailer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

const QueueName = "email_queue"

type Publisher interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

// Channel 是 *amqp.Channel 中用到的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueDeclarer 是 *amqp.Channel 中声明队列的部分，api 和 mail worker 共用同一份队列参数
type QueueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

func DeclareQueue(ch QueueDeclarer) (amqp.Queue, error) {
	return ch.QueueDeclare(
		QueueName, // 队列名称
		true,      // 是否持久化
		false,     // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
		false,     // 是否独占
		false,     // 是否不等待
		nil,       // 额外参数
	)
}

// AMQPPublisher 把邮件消息投递到 RabbitMQ，由 cmd/mail 消费并发送
type AMQPPublisher struct {
	ch      Channel
	timeout time.Duration
}

func NewAMQPPublisher(ch Channel, timeout time.Duration) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, timeout: timeout}
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// LogPublisher 在未配置 RabbitMQ 时使用，只记录日志
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	p.logger.InfoContext(ctx, "未配置消息队列，跳过邮件发送", "type", msg.Type, "to", msg.To)
	return nil
}
