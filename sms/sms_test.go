package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func confirmationMessage(r Recipient) string {
	return "payment received"
}

func TestSendBatchSuccess(t *testing.T) {
	var received []gatewayPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload gatewayPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received = append(received, payload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithApiKey("key"), WithSenderID("MessHub"))
	result := client.SendBatch(context.Background(), []Recipient{
		{StudentID: 1, Phone: "01712345678"},
		{StudentID: 2, Phone: "01898765432"},
	}, confirmationMessage)

	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.NotEmpty(t, result.BatchID)
	assert.Len(t, received, 2)
	assert.Equal(t, "01712345678", received[0].To)
	assert.Equal(t, "payment received", received[0].Body)
	assert.Equal(t, "MessHub", received[0].SenderID)
}

func TestSendBatchSkipsEmptyPhone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	result := client.SendBatch(context.Background(), []Recipient{
		{StudentID: 1, Phone: ""},
		{StudentID: 2, Phone: "01712345678"},
	}, confirmationMessage)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Errors, 1)
}

func TestSendBatchRejectionIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(3))
	result := client.SendBatch(context.Background(), []Recipient{
		{StudentID: 1, Phone: "01712345678"},
	}, confirmationMessage)

	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, attempts)
}

func TestSendBatchRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(5))
	result := client.SendBatch(context.Background(), []Recipient{
		{StudentID: 1, Phone: "01712345678"},
	}, confirmationMessage)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 3, attempts)
}

func TestNoopClientCountsAsSent(t *testing.T) {
	result := NoopClient{}.SendBatch(context.Background(), []Recipient{
		{StudentID: 1}, {StudentID: 2},
	}, confirmationMessage)

	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Failed)
}
