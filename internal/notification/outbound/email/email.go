package email

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/storefront/internal/notification/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/mail"
)

const (
	otpSubject  = "Your OTP Code"
	otpTextBody = "Your OTP code is: %s"
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

// SendOTP renders and sends the plain-text code email.
func (m *Mail) SendOTP(ctx context.Context, in entity.OTPMail) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "SendOTP")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("identity_id", in.IdentityID),
		attribute.String("purpose", in.Purpose),
	)

	if err := m.client.Send(ctx, mail.Message{
		To:       []string{in.To},
		Subject:  otpSubject,
		TextBody: fmt.Sprintf(otpTextBody, in.Code),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
