package service

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"time"

	"studio-booking/internal/domain/entity"
	"studio-booking/internal/infrastructure/mail"
	"studio-booking/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// ContactMessage is the content of the public contact form.
type ContactMessage struct {
	To          string
	Subject     string
	FromName    string
	FromEmail   string
	FromPhone   string
	ServiceType string
	Date        string
	Time        string
	Message     string
}

var contactTemplate = template.Must(template.New("contact").Parse(`<h2>New message from the website</h2>
<p><strong>Name:</strong> {{.FromName}}</p>
<p><strong>Email:</strong> {{.FromEmail}}</p>
{{if .FromPhone}}<p><strong>Phone:</strong> {{.FromPhone}}</p>{{end}}
{{if .ServiceType}}<p><strong>Service:</strong> {{.ServiceType}}</p>{{end}}
{{if .Date}}<p><strong>Preferred date:</strong> {{.Date}}{{if .Time}} at {{.Time}}{{end}}</p>{{end}}
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

var bookingTemplate = template.Must(template.New("booking").Parse(`<h2>New appointment request</h2>
<p><strong>Reference:</strong> #{{.Appointment.ID}}</p>
<p><strong>Date:</strong> {{.Appointment.Date}} {{.Appointment.StartTime}}-{{.Appointment.EndTime}}</p>
<p><strong>Name:</strong> {{.Appointment.Name}}</p>
<p><strong>Email:</strong> {{.Appointment.Email}}</p>
{{if .Appointment.Phone}}<p><strong>Phone:</strong> {{.Appointment.Phone}}</p>{{end}}
<p><strong>Service:</strong> {{.ServiceTitle}}</p>
{{if .Appointment.Message}}<p><strong>Message:</strong> {{.Appointment.Message}}</p>{{end}}
<p>Status: {{.Appointment.Status}}. Confirm or cancel it from the admin dashboard.</p>
`))

// NotificationService renders and sends studio emails. Background sends are
// tracked so Close can wait for them.
type NotificationService struct {
	sender     mail.Sender
	log        *logrus.Logger
	studioName string
	inbox      string

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewNotificationService(sender mail.Sender, log *logrus.Logger, studioName, inbox string) *NotificationService {
	return &NotificationService{
		sender:     sender,
		log:        log,
		studioName: studioName,
		inbox:      inbox,
	}
}

// Inbox returns the studio address that receives notifications.
func (s *NotificationService) Inbox() string {
	return s.inbox
}

// SendContact renders msg and delivers it. An empty recipient falls back to
// the studio inbox.
func (s *NotificationService) SendContact(ctx context.Context, msg ContactMessage) error {
	if msg.To == "" {
		msg.To = s.inbox
	}
	if msg.Subject == "" {
		msg.Subject = "New contact form submission - " + s.studioName
	}

	var body bytes.Buffer
	if err := contactTemplate.Execute(&body, msg); err != nil {
		return err
	}

	if err := s.sender.Send(ctx, msg.To, msg.Subject, body.String()); err != nil {
		metrics.RecordEmail("contact", "error")
		return err
	}
	metrics.RecordEmail("contact", "sent")
	return nil
}

// NotifyBooking tells the studio about a new appointment. It runs detached
// from the request and only logs failures.
func (s *NotificationService) NotifyBooking(appointment entity.Appointment, serviceTitle string) {
	if s.inbox == "" {
		return
	}
	if serviceTitle == "" {
		serviceTitle = appointment.Service
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warnf("Notification service closed, skipping booking notification for appointment %d", appointment.ID)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var body bytes.Buffer
		data := struct {
			Appointment  entity.Appointment
			ServiceTitle string
		}{appointment, serviceTitle}
		if err := bookingTemplate.Execute(&body, data); err != nil {
			s.log.Warnf("Failed to render booking notification: %+v", err)
			return
		}

		subject := "New booking request - " + appointment.Date + " " + appointment.StartTime
		if err := s.sender.Send(ctx, s.inbox, subject, body.String()); err != nil {
			metrics.RecordEmail("booking", "error")
			s.log.Warnf("Failed to send booking notification for appointment %d: %+v", appointment.ID, err)
			return
		}
		metrics.RecordEmail("booking", "sent")
	}()
}

// Close stops accepting booking notifications and waits for the ones in
// flight, or until ctx is done.
func (s *NotificationService) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("NotificationService stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
