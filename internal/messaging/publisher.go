package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	publishAttempts = 3
	publishTimeout  = 10 * time.Second
	appID           = "gameplay-server"
)

// publishChannel - часть *amqp.Channel, нужная паблишеру.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

var _ interfaces.GameplayEventPublisher = (*rabbitMQPublisher)(nil)

// rabbitMQPublisher публикует игровые события в очередь через default exchange.
// Канал amqp не потокобезопасен для публикации: мьютекс держится только на время одного вызова.
type rabbitMQPublisher struct {
	mu         sync.Mutex
	channel    publishChannel
	closer     func() error
	open       channelOpener // nil - переоткрытие невозможно
	queueName  string
	retryDelay time.Duration
	logger     *zap.Logger
}

// channelOpener открывает новый канал и возвращает функцию его закрытия.
type channelOpener func() (publishChannel, func() error, error)

// NewRabbitMQGameplayEventPublisher открывает канал и объявляет durable очередь событий.
// Закрытый брокером канал переоткрывается на том же соединении при следующей попытке публикации.
func NewRabbitMQGameplayEventPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (*rabbitMQPublisher, error) {
	open := func() (publishChannel, func() error, error) {
		return declareQueueChannel(conn, queueName)
	}
	ch, closer, err := open()
	if err != nil {
		return nil, err
	}
	p := newPublisher(ch, queueName, logger)
	p.closer = closer
	p.open = open
	p.logger.Info("Gameplay event queue declared")
	return p, nil
}

func declareQueueChannel(conn *amqp.Connection, queueName string) (publishChannel, func() error, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("gameplay event publisher: failed to open channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("gameplay event publisher: failed to declare queue '%s': %w", queueName, err)
	}
	return ch, ch.Close, nil
}

func newPublisher(ch publishChannel, queueName string, logger *zap.Logger) *rabbitMQPublisher {
	return &rabbitMQPublisher{
		channel:    ch,
		queueName:  queueName,
		retryDelay: 100 * time.Millisecond,
		logger:     logger.Named("GameplayEventPublisher").With(zap.String("queue", queueName)),
	}
}

// PublishGameplayEvent сериализует событие в JSON и публикует его.
func (p *rabbitMQPublisher) PublishGameplayEvent(ctx context.Context, event models.GameplayEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal gameplay event: %w", err)
	}
	if err := p.publishMessage(ctx, body); err != nil {
		return err
	}
	p.logger.Debug("Gameplay event published",
		zap.String("type", string(event.Type)),
		zap.Stringer("eventID", event.EventID))
	return nil
}

func (p *rabbitMQPublisher) publishMessage(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = p.publishOnce(ctx, body)
		if err == nil {
			return nil
		}
		if errors.Is(err, errChannelNotInitialized) {
			return err
		}
		p.logger.Warn("Publish attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt == publishAttempts {
			break
		}
		// Ожидание без мьютекса: остальные публикации не блокируются.
		select {
		case <-ctx.Done():
			return fmt.Errorf("publish to queue %s cancelled: %w", p.queueName, ctx.Err())
		case <-time.After(time.Duration(attempt) * p.retryDelay):
		}
	}
	return fmt.Errorf("failed to publish to queue %s after %d attempts: %w", p.queueName, publishAttempts, err)
}

var errChannelNotInitialized = errors.New("rabbitmq channel is not initialized")

// publishOnce делает одну попытку под мьютексом, при необходимости переоткрывая канал.
func (p *rabbitMQPublisher) publishOnce(ctx context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		if p.open == nil {
			return errChannelNotInitialized
		}
		ch, closer, err := p.open()
		if err != nil {
			return fmt.Errorf("reopen channel: %w", err)
		}
		p.channel, p.closer = ch, closer
		p.logger.Info("Publisher channel reopened")
	}

	err := p.channel.PublishWithContext(ctx,
		"",          // exchange (default)
		p.queueName, // routing key (имя очереди)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			AppId:        appID,
		},
	)
	if errors.Is(err, amqp.ErrClosed) && p.open != nil {
		// Канал мертв, следующая попытка откроет новый.
		if p.closer != nil {
			_ = p.closer()
		}
		p.channel, p.closer = nil, nil
	}
	return err
}

// Close закрывает канал, если паблишер им владеет.
func (p *rabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closer == nil {
		return nil
	}
	err := p.closer()
	p.channel, p.closer, p.open = nil, nil, nil
	return err
}
