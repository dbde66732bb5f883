package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

// Recipient is one payment-confirmation message target.
type Recipient struct {
	StudentID     int64   `json:"student_id"`
	Phone         string  `json:"phone"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentMethod string  `json:"payment_method"`
	RentHistoryID int64   `json:"rent_history_id"`
}

// MessageFunc renders the message body for one recipient.
type MessageFunc = func(r Recipient) string

// BatchResult is the per-batch outcome. Partial failure is normal: callers
// must inspect Failed/Errors rather than expect an error return.
type BatchResult struct {
	BatchID string   `json:"batch_id"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Client sends payment-confirmation messages. Implementations are
// fire-and-forget: they catch their own errors and report them in the
// BatchResult, never past their boundary.
type Client interface {
	SendBatch(ctx context.Context, recipients []Recipient, message MessageFunc) BatchResult
}

type gatewayPayload struct {
	To       string `json:"to"`
	Body     string `json:"body"`
	SenderID string `json:"sender_id,omitempty"`
	ApiKey   string `json:"api_key,omitempty"`
}

// HTTPClient posts messages to an SMS gateway HTTP API one recipient at a
// time, retrying transient failures with exponential backoff.
type HTTPClient struct {
	url        string
	apiKey     string
	senderID   string
	httpClient *http.Client
	maxRetries uint64
	logger     *lecho.Logger
}

type ClientOption = func(client *HTTPClient)

func WithApiKey(key string) ClientOption {
	return func(client *HTTPClient) {
		client.apiKey = key
	}
}

func WithSenderID(id string) ClientOption {
	return func(client *HTTPClient) {
		client.senderID = id
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(client *HTTPClient) {
		client.httpClient = httpClient
	}
}

func WithMaxRetries(n uint64) ClientOption {
	return func(client *HTTPClient) {
		client.maxRetries = n
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *HTTPClient) {
		client.logger = logger
	}
}

func NewHTTPClient(url string, options ...ClientOption) *HTTPClient {
	client := &HTTPClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 2,
		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.INFO),
			lecho.WithTimestamp(),
		),
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

func (client *HTTPClient) SendBatch(ctx context.Context, recipients []Recipient, message MessageFunc) BatchResult {
	result := BatchResult{BatchID: uuid.NewString()}
	for _, recipient := range recipients {
		if recipient.Phone == "" {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("student %d has no phone number", recipient.StudentID))
			continue
		}
		if err := client.send(ctx, recipient.Phone, message(recipient)); err != nil {
			client.logger.Errorf("Failed to send sms: student_id:%d error: %v", recipient.StudentID, err)
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Sent++
	}
	return result
}

func (client *HTTPClient) send(ctx context.Context, phone, body string) error {
	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(&gatewayPayload{
		To:       phone,
		Body:     body,
		SenderID: client.senderID,
		ApiKey:   client.apiKey,
	})
	if err != nil {
		return err
	}
	raw := payload.Bytes()

	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.url, bytes.NewReader(raw))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			msg, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("sms gateway rejected message: %d %s", resp.StatusCode, msg))
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), client.maxRetries), ctx))
}

// NoopClient is used when no gateway is configured. Messages are counted
// as sent so reconciliation results stay consistent.
type NoopClient struct{}

func (NoopClient) SendBatch(ctx context.Context, recipients []Recipient, message MessageFunc) BatchResult {
	return BatchResult{BatchID: uuid.NewString(), Sent: len(recipients)}
}
