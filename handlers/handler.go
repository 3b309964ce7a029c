package handlers

import (
	"github.com/anjiri1684/wordpace/payments"
	"github.com/anjiri1684/wordpace/services"
	"github.com/anjiri1684/wordpace/websocket"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// Handler serves the local HTTP surface the UI shell calls. Every route acts
// on the one engine the process owns.
type Handler struct {
	Engine   *services.Engine
	Payments *payments.Processor
	Hub      *websocket.Hub
	Auth     DeviceAuth
	Log      *zap.Logger
}

func New(engine *services.Engine, hub *websocket.Hub, auth DeviceAuth, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Engine:   engine,
		Payments: payments.NewProcessor(engine, log),
		Hub:      hub,
		Auth:     auth,
		Log:      log.Named("http"),
	}
}
