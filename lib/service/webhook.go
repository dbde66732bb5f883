package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/messhub/messhub.go/common"
	"github.com/messhub/messhub.go/db/models"
)

// StartWebhookSubscription posts every committed settlement to the
// configured webhook url until the context is cancelled.
func (svc *MesshubService) StartWebhookSubscription(ctx context.Context, url string) {
	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	settlements := make(chan models.RentHistory)
	subID := svc.SettlementPubSub.Subscribe(common.TopicSettlement, settlements)
	defer svc.SettlementPubSub.Unsubscribe(subID, common.TopicSettlement)
	for {
		select {
		case <-ctx.Done():
			return
		case settlement := <-settlements:
			svc.postToWebhook(url, settlement)
		}
	}
}

func (svc *MesshubService) postToWebhook(url string, settlement models.RentHistory) {
	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(settlement)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	resp, err := http.Post(url, "application/json", payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}

// SubscribeSettlements adapts the in-process pubsub to the rabbitmq
// publisher's subscription contract.
func (svc *MesshubService) SubscribeSettlements() (chan models.RentHistory, error) {
	settlements := make(chan models.RentHistory)
	svc.SettlementPubSub.Subscribe(common.TopicSettlement, settlements)
	return settlements, nil
}

// EncodeSettlement writes the rabbitmq payload for one settlement.
func (svc *MesshubService) EncodeSettlement(ctx context.Context, w io.Writer, settlement models.RentHistory) error {
	return json.NewEncoder(w).Encode(settlement)
}
