package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmailDelivery = errors.New("failed to send email")
)

type ContactUsecase interface {
	SendContact(ctx context.Context, req *dto.SendEmailRequest) error
}

type contactUsecase struct {
	log      *logrus.Logger
	notifier *service.NotificationService
	catalog  ServiceCatalogUsecase
}

func NewContactUsecase(log *logrus.Logger, notifier *service.NotificationService, catalog ServiceCatalogUsecase) ContactUsecase {
	return &contactUsecase{
		log:      log,
		notifier: notifier,
		catalog:  catalog,
	}
}

// SendContact forwards a contact form message to the studio inbox
func (u *contactUsecase) SendContact(ctx context.Context, req *dto.SendEmailRequest) error {
	serviceType := strings.TrimSpace(req.ServiceType)
	if offering, err := u.catalog.FindBySlug(ctx, serviceType); err == nil {
		serviceType = offering.Title
	}

	msg := service.ContactMessage{
		To:          u.notifier.Inbox(),
		Subject:     strings.TrimSpace(req.Subject),
		FromName:    strings.TrimSpace(req.FromName),
		FromEmail:   strings.TrimSpace(req.FromEmail),
		FromPhone:   strings.TrimSpace(req.FromPhone),
		ServiceType: serviceType,
		Date:        req.AppointmentDate,
		Time:        req.AppointmentTime,
		Message:     strings.TrimSpace(req.Message),
	}

	if err := u.notifier.SendContact(ctx, msg); err != nil {
		u.log.Warnf("Failed to send contact email from %s: %+v", msg.FromEmail, err)
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	u.log.Infof("Contact email sent from %s", msg.FromEmail)
	return nil
}
