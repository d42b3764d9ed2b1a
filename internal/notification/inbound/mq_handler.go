package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/storefront/internal/notification/usecase"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/messaging"
	"github.com/shandysiswandi/storefront/internal/pkg/uid"
	"github.com/shandysiswandi/storefront/internal/shared/event"
)

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) withCorrelationID(ctx context.Context, msg *messaging.Message) context.Context {
	if cID := msg.Header(event.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// OTPIssuedNotification acknowledges bodies it cannot parse and lets
// delivery failures through for redelivery.
func (h *MQHandler) OTPIssuedNotification(ctx context.Context, msg *messaging.Message) error {
	ctx = h.withCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPIssuedNotification")
	defer span.End()

	// the body holds the plain code; log the id only
	slog.InfoContext(ctx, "consume: otp issued notification", "msg_id", msg.ID)

	var payload event.OTPIssuedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued notification", "msg_id", msg.ID, "error", err)
		return nil
	}

	if err := h.uc.ConsumeOTPIssued(ctx, usecase.ConsumeOTPIssuedInput{
		IdentityID:  payload.IdentityID,
		Email:       payload.Email,
		DisplayName: payload.DisplayName,
		Code:        payload.Code,
		Purpose:     payload.Purpose,
		ExpiresAt:   payload.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued", "msg_id", msg.ID, "identity_id", payload.IdentityID, "error", err)
		return err
	}

	return nil
}
