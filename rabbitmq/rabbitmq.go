package rabbitmq

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/gommon/log"
	"github.com/messhub/messhub.go/db/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool is a classic buffer pool pattern that allows reuse of heap
// memory between payload encodings. With the sequential settlement stream
// there is normally a single buffer in the pool.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"
)

type (
	SubscribeToSettlementsFunc = func() (settlements chan models.RentHistory, err error)
	EncodeSettlementFunc       = func(ctx context.Context, w io.Writer, settlement models.RentHistory) error
)

// Client publishes committed settlement events so downstream consumers
// (accounting exports, notification workers) can react to them.
type Client interface {
	StartPublishSettlements(context.Context, SubscribeToSettlementsFunc, EncodeSettlementFunc) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	conn *amqp.Connection

	publishChannel *amqp.Channel

	logger *lecho.Logger

	settlementExchange string
}

type ClientOption = func(client *DefaultClient)

func WithSettlementExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.settlementExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// Dial sets up a connection to rabbitmq with a channel ready to publish.
func Dial(uri string, options ...ClientOption) (Client, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}

	publishChannel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	client := &DefaultClient{
		conn: conn,

		publishChannel: publishChannel,

		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),

		settlementExchange: "messhub_settlement",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.conn.Close() }

func (client *DefaultClient) StartPublishSettlements(ctx context.Context, subscribeFunc SubscribeToSettlementsFunc, payloadFunc EncodeSettlementFunc) error {
	err := client.publishChannel.ExchangeDeclare(
		client.settlementExchange,
		// topic exchanges route messages to queues based on a routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchange's accept direct publishing
		false,
		// Nowait: We set this to false as we want to wait for a server response
		// to check whether the exchange was created succesfully
		false,
		nil,
	)
	if err != nil {
		return err
	}

	client.logger.Info("Starting rabbitmq settlement publisher")

	settlements, err := subscribeFunc()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case settlement := <-settlements:
			err = client.publishToSettlementExchange(ctx, settlement, payloadFunc)
			if err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishToSettlementExchange(ctx context.Context, settlement models.RentHistory, payloadFunc EncodeSettlementFunc) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	err := payloadFunc(ctx, payload, settlement)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("settlement.%s", strings.ReplaceAll(settlement.PaymentType, " ", "_"))

	err = client.publishChannel.PublishWithContext(ctx,
		client.settlementExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		captureErr(client.logger, err)
		return err
	}

	client.logger.Debugf("Successfully published settlement to rabbitmq: rent_history_id %d", settlement.ID)

	return nil
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
