package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
)

type natsConn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher fans events out on <prefix>.<event type>.
type NATSPublisher struct {
	conn   natsConn
	prefix string
}

// NewNATSPublisher accepts a *nats.Conn.
func NewNATSPublisher(conn natsConn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

func (p *NATSPublisher) Publish(ctx context.Context, evt models.PaymentEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.conn.Publish(fmt.Sprintf("%s.%s", p.prefix, evt.Type), payload)
}
