package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notification is one message for a set of employees. Delivery transport
// (email, chat, push) is behind the Gateway; the workflow only fans out.
type Notification struct {
	RecipientEmployeeIDs []string
	Subject              string
	Body                 string
	ApplicationID        string
}

//go:generate mockgen -source=gateway.go -destination=mock/gateway_mock.go -package=mock
type Gateway interface {
	Send(ctx context.Context, n Notification) error
}

// logGateway writes notifications to the log. It stands in for a real
// delivery channel in environments without one configured.
type logGateway struct {
	logger *zap.Logger
}

func NewLogGateway(logger *zap.Logger) Gateway {
	return &logGateway{logger: logger.Named("notify.gateway")}
}

func (g *logGateway) Send(_ context.Context, n Notification) error {
	g.logger.Info("notification delivered",
		zap.Strings("recipients", n.RecipientEmployeeIDs),
		zap.String("subject", n.Subject),
		zap.String("application_id", n.ApplicationID),
	)
	return nil
}
