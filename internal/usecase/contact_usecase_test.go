package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"studio-booking/internal/delivery/dto"
)

func TestSendContactGoesToStudioInbox(t *testing.T) {
	app := newTestApp(t)

	err := app.contact.SendContact(context.Background(), &dto.SendEmailRequest{
		FromName:  "Ada",
		FromEmail: "ada@example.com",
		Message:   "Do you shoot weddings abroad?",
	})
	if err != nil {
		t.Fatalf("SendContact: %v", err)
	}

	if app.mail.count() != 1 || !strings.HasPrefix(app.mail.sent[0], "studio@example.com|") {
		t.Fatalf("sent = %v", app.mail.sent)
	}
}

func TestSendContactDeliveryFailure(t *testing.T) {
	app := newTestApp(t)
	app.mail.err = errors.New("smtp down")

	err := app.contact.SendContact(context.Background(), &dto.SendEmailRequest{
		FromName:  "Ada",
		FromEmail: "ada@example.com",
		Message:   "Hello",
	})
	assertErr(t, err, ErrEmailDelivery)
}
