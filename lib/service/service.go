package service

import (
	"github.com/labstack/gommon/random"
	"github.com/messhub/messhub.go/rabbitmq"
	"github.com/messhub/messhub.go/sms"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

const alphaNumBytes = random.Alphanumeric

type MesshubService struct {
	Config           *Config
	DB               *bun.DB
	Logger           *lecho.Logger
	SmsClient        sms.Client
	SettlementPubSub *Pubsub
	RabbitMQClient   rabbitmq.Client
}
