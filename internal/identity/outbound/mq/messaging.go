package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/storefront/internal/identity/usecase"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/messaging"
	"github.com/shandysiswandi/storefront/internal/shared/event"
)

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

// PublishOTPIssued hands the issued code to the notification channel. The
// identity id is the message key so codes of one identity stay ordered.
func (m *Messaging) PublishOTPIssued(ctx context.Context, msg usecase.OTPIssuedEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishOTPIssued")
	defer span.End()

	body, err := json.Marshal(event.OTPIssuedMessage{
		IdentityID:  msg.IdentityID,
		Email:       msg.Email,
		DisplayName: msg.DisplayName,
		Code:        msg.Code,
		Purpose:     msg.Context.String(),
		ExpiresAt:   msg.ExpiresAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	headers := map[string]string{}
	if cID := instrument.GetCorrelationID(ctx); cID != "" {
		headers[event.HeaderCorrelationID] = cID
	}

	if err := m.client.Publish(ctx, event.OTPIssuedTopic, messaging.OutgoingMessage{
		Key:     []byte(strconv.FormatInt(msg.IdentityID, 10)),
		Body:    body,
		Headers: headers,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
