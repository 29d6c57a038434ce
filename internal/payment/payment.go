package payment

import (
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/util"
	"resty.dev/v3"
)

// Service talks to the card payment gateway. Requests and callbacks are
// authenticated with an HMAC over the payload, using the shared gateway key.
type Service struct {
	config  util.Config
	dbStore db.Store
	client  *resty.Client
}

func NewService(config util.Config, dbStore db.Store, client *resty.Client) *Service {
	return &Service{
		config:  config,
		dbStore: dbStore,
		client:  client,
	}
}
