package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/storefront/internal/notification/entity"
	"github.com/shandysiswandi/storefront/internal/pkg/instrument"
	"github.com/shandysiswandi/storefront/internal/pkg/mail"
)

type captureMail struct {
	sent []mail.Message
	err  error
}

func (c *captureMail) Send(_ context.Context, msg mail.Message) error {
	c.sent = append(c.sent, msg)
	return c.err
}

func (c *captureMail) Close() error { return nil }

func TestMail_SendOTP(t *testing.T) {
	client := &captureMail{}
	m := New(client, instrument.NewNoop())

	err := m.SendOTP(context.Background(), entity.OTPMail{
		IdentityID: 1,
		To:         "a@x.com",
		Code:       "482913",
		Purpose:    "login",
		ExpiresAt:  time.Now().Add(time.Minute),
	})
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	msg := client.sent[0]
	assert.Equal(t, []string{"a@x.com"}, msg.To)
	assert.Equal(t, "Your OTP Code", msg.Subject)
	assert.Equal(t, "Your OTP code is: 482913", msg.TextBody)
	assert.Empty(t, msg.HTMLBody)
}

func TestMail_SendOTP_Error(t *testing.T) {
	client := &captureMail{err: errors.New("smtp: 451 try again")}
	m := New(client, instrument.NewNoop())

	err := m.SendOTP(context.Background(), entity.OTPMail{To: "a@x.com", Code: "1"})
	assert.EqualError(t, err, "smtp: 451 try again")
}
