package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/domain/availability"
	"studio-booking/internal/domain/entity"
	"studio-booking/pkg/idgen"
)

func bookingRequest(date, start string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		Date:      date,
		StartTime: start,
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "555-0100",
		Service:   "portrait",
	}
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

func TestCreateBookingIsPendingAndTakesSlot(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	created, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "10:00"))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if created.Status != string(entity.AppointmentStatusPending) {
		t.Fatalf("status = %s, want pending", created.Status)
	}
	if created.EndTime != "11:00" {
		t.Fatalf("end time = %s, want 11:00", created.EndTime)
	}

	slots, err := app.booking.GetAvailableSlots(ctx, "2025-06-03")
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if containsSlot(slots.AvailableSlots, "10:00") || len(slots.AvailableSlots) != 7 {
		t.Fatalf("available = %v", slots.AvailableSlots)
	}

	_, err = app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "10:00"))
	assertErr(t, err, ErrSlotUnavailable)

	deadline := time.Now().Add(2 * time.Second)
	for app.mail.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if app.mail.count() != 1 {
		t.Fatalf("expected one booking notification, got %d", app.mail.count())
	}
}

func TestCreateBookingLegacyAliases(t *testing.T) {
	app := newTestApp(t)

	req := &dto.CreateAppointmentRequest{
		Date:         "2025-06-03",
		StartTime:    "09:00",
		PatientName:  "Old Form",
		PatientEmail: "old@example.com",
	}
	created, err := app.booking.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if created.Name != "Old Form" || created.Email != "old@example.com" {
		t.Fatalf("aliases not applied: %+v", created)
	}
}

func TestConcurrentBookingsSameSlot(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-04", "14:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotUnavailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != attempts-1 {
		t.Fatalf("succeeded=%d conflicts=%d", succeeded, conflicts)
	}

	var count int64
	app.db.Model(&entity.Appointment{}).Where("date = ? AND start_time = ?", "2025-06-04", "14:00").Count(&count)
	if count != 1 {
		t.Fatalf("stored %d appointments for the slot", count)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	if _, err := app.blocking.BlockDate(ctx, &dto.BlockDateRequest{Date: "2025-06-10", Reason: "Holiday"}); err != nil {
		t.Fatalf("BlockDate: %v", err)
	}
	if _, err := app.blocking.BlockSlots(ctx, &dto.BlockSlotsRequest{Date: "2025-06-11", StartTimes: []string{"09:00"}}); err != nil {
		t.Fatalf("BlockSlots: %v", err)
	}

	tests := []struct {
		name  string
		date  string
		start string
		want  error
	}{
		{"yesterday", "2025-06-01", "10:00", ErrDateInPast},
		{"earlier today", "2025-06-02", "07:00", ErrSlotOutsideHours},
		{"off grid", "2025-06-03", "10:30", ErrSlotOutsideHours},
		{"after hours", "2025-06-03", "17:00", ErrSlotOutsideHours},
		{"bad date", "06/03/2025", "10:00", ErrInvalidDateFormat},
		{"bad time", "2025-06-03", "10am", ErrInvalidTimeFormat},
		{"blocked date", "2025-06-10", "10:00", ErrSlotUnavailable},
		{"blocked slot", "2025-06-11", "09:00", ErrSlotUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := app.booking.CreateBooking(ctx, bookingRequest(tt.date, tt.start))
			assertErr(t, err, tt.want)
		})
	}

	// 09:00 on the same day as fixedNow (08:00) is still in the future
	if _, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-02", "09:00")); err != nil {
		t.Fatalf("later today should be bookable: %v", err)
	}
}

func TestAdminCreateCanConfirm(t *testing.T) {
	app := newTestApp(t)

	created, err := app.booking.CreateAdminAppointment(context.Background(), &dto.AdminCreateAppointmentRequest{
		CreateAppointmentRequest: *bookingRequest("2025-06-05", "11:00"),
		Confirmed:                true,
	})
	if err != nil {
		t.Fatalf("CreateAdminAppointment: %v", err)
	}
	if created.Status != string(entity.AppointmentStatusConfirmed) {
		t.Fatalf("status = %s", created.Status)
	}
	if app.mail.count() != 0 {
		t.Fatal("admin bookings should not notify the studio")
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	created, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "13:00"))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	confirmed, err := app.booking.UpdateStatus(ctx, created.ID, "confirmed")
	if err != nil || confirmed.Status != "confirmed" {
		t.Fatalf("confirm: %+v, %v", confirmed, err)
	}

	again, err := app.booking.UpdateStatus(ctx, created.ID, "confirmed")
	if err != nil || again.Status != "confirmed" {
		t.Fatalf("same status should be a no-op: %+v, %v", again, err)
	}

	_, err = app.booking.UpdateStatus(ctx, created.ID, "cancelled")
	assertErr(t, err, ErrInvalidStatusTransition)

	if _, err := app.booking.UpdateStatus(ctx, created.ID, "pending"); err != nil {
		t.Fatalf("confirmed -> pending: %v", err)
	}
	if _, err := app.booking.UpdateStatus(ctx, created.ID, "cancelled"); err != nil {
		t.Fatalf("pending -> cancelled: %v", err)
	}

	_, err = app.booking.UpdateStatus(ctx, created.ID, "pending")
	assertErr(t, err, ErrInvalidStatusTransition)

	_, err = app.booking.UpdateStatus(ctx, created.ID, "archived")
	assertErr(t, err, ErrInvalidStatus)

	_, err = app.booking.UpdateStatus(ctx, 42, "confirmed")
	assertErr(t, err, ErrAppointmentNotFound)

	// A cancelled appointment frees its slot.
	if _, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "13:00")); err != nil {
		t.Fatalf("rebooking a cancelled slot: %v", err)
	}

	logs, err := app.audit.GetAllAuditLogs(ctx, 0)
	if err != nil {
		t.Fatalf("GetAllAuditLogs: %v", err)
	}
	statusChanges := 0
	for _, l := range logs.Logs {
		if l.Action == entity.AuditActionAppointmentStatus {
			statusChanges++
		}
	}
	if statusChanges != 3 {
		t.Fatalf("audited %d status changes, want 3", statusChanges)
	}
}

func TestDeleteAppointmentFreesSlot(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	created, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-06", "15:00"))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	deleted, err := app.booking.DeleteAppointment(ctx, created.ID)
	if err != nil || deleted.ID != created.ID {
		t.Fatalf("DeleteAppointment: %+v, %v", deleted, err)
	}

	_, err = app.booking.GetAppointment(ctx, created.ID)
	assertErr(t, err, ErrAppointmentNotFound)

	_, err = app.booking.DeleteAppointment(ctx, created.ID)
	assertErr(t, err, ErrAppointmentNotFound)

	slots, _ := app.booking.GetAvailableSlots(ctx, "2025-06-06")
	if !containsSlot(slots.AvailableSlots, "15:00") {
		t.Fatalf("slot not released: %v", slots.AvailableSlots)
	}
}

func TestListAppointmentsByStatus(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	first, _ := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "09:00"))
	if _, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "10:00")); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if _, err := app.booking.UpdateStatus(ctx, first.ID, "confirmed"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	all, err := app.booking.ListAppointments(ctx, "")
	if err != nil || all.Total != 2 {
		t.Fatalf("all: %+v, %v", all, err)
	}
	confirmed, err := app.booking.ListAppointments(ctx, "confirmed")
	if err != nil || confirmed.Total != 1 || confirmed.Appointments[0].ID != first.ID {
		t.Fatalf("confirmed: %+v, %v", confirmed, err)
	}
	_, err = app.booking.ListAppointments(ctx, "bogus")
	assertErr(t, err, ErrInvalidStatus)
}

func TestNext20DaysWindow(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	if _, err := app.blocking.BlockDate(ctx, &dto.BlockDateRequest{Date: "2025-06-04"}); err != nil {
		t.Fatalf("BlockDate: %v", err)
	}
	if _, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "09:00")); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	window, err := app.booking.GetNext20Days(ctx)
	if err != nil {
		t.Fatalf("GetNext20Days: %v", err)
	}
	if len(window.Days) != 20 {
		t.Fatalf("got %d days", len(window.Days))
	}
	if window.Days[0].Date != "2025-06-02" || window.Days[19].Date != "2025-06-21" {
		t.Fatalf("window bounds %s..%s", window.Days[0].Date, window.Days[19].Date)
	}
	if !window.Days[1].HasReservations || len(window.Days[1].AvailableSlots) != 7 {
		t.Fatalf("2025-06-03: %+v", window.Days[1])
	}
	if !window.Days[2].IsBlocked || len(window.Days[2].AvailableSlots) != 0 {
		t.Fatalf("2025-06-04: %+v", window.Days[2])
	}
}

func TestGetAvailableSlotsBadDate(t *testing.T) {
	app := newTestApp(t)
	_, err := app.booking.GetAvailableSlots(context.Background(), "tomorrow")
	assertErr(t, err, ErrInvalidDateFormat)
}

func TestDocumentAndDashboard(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	first, _ := app.booking.CreateBooking(ctx, bookingRequest("2025-06-02", "09:00"))
	second, _ := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "09:00"))
	if first == nil || second == nil {
		t.Fatal("setup bookings failed")
	}
	if _, err := app.booking.UpdateStatus(ctx, second.ID, "cancelled"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := app.blocking.BlockSlots(ctx, &dto.BlockSlotsRequest{Date: "2025-06-02", StartTimes: []string{"16:00"}}); err != nil {
		t.Fatalf("BlockSlots: %v", err)
	}
	if _, err := app.reviews.Submit(ctx, &dto.SubmitReviewRequest{Name: "A", Content: "Great", Rating: 5}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	doc, err := app.booking.GetDocument(ctx)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if len(doc.Appointments) != 2 || len(doc.BlockedSlots) != 1 || doc.WorkingHours.SlotDuration != 60 {
		t.Fatalf("document: %+v", doc)
	}

	stats, err := app.booking.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if stats.TotalAppointments != 2 || stats.PendingAppointments != 1 || stats.CancelledAppointments != 1 {
		t.Fatalf("counts: %+v", stats)
	}
	if stats.UpcomingAppointments != 1 {
		t.Fatalf("upcoming = %d", stats.UpcomingAppointments)
	}
	if stats.SlotsPerDay != 8 || stats.AvailableSlotsToday != 6 {
		t.Fatalf("slots: per day %d, today %d", stats.SlotsPerDay, stats.AvailableSlotsToday)
	}
	if stats.PendingReviews != 1 {
		t.Fatalf("pending reviews = %d", stats.PendingReviews)
	}
}

func TestConfirmedOnlyLetsPendingShareSlot(t *testing.T) {
	app := newTestAppWith(t, testOptions{occupied: availability.ConfirmedOnly})
	ctx := context.Background()

	first, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "10:00"))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	slots, err := app.booking.GetAvailableSlots(ctx, "2025-06-03")
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if !containsSlot(slots.AvailableSlots, "10:00") {
		t.Fatalf("pending booking should not hold the slot: %v", slots.AvailableSlots)
	}

	second, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "10:00"))
	if err != nil {
		t.Fatalf("second pending booking of an advertised slot: %v", err)
	}

	if _, err := app.booking.UpdateStatus(ctx, first.ID, "confirmed"); err != nil {
		t.Fatalf("confirm first: %v", err)
	}

	slots, err = app.booking.GetAvailableSlots(ctx, "2025-06-03")
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if containsSlot(slots.AvailableSlots, "10:00") {
		t.Fatalf("confirmed booking should hold the slot: %v", slots.AvailableSlots)
	}

	_, err = app.booking.UpdateStatus(ctx, second.ID, "confirmed")
	assertErr(t, err, ErrSlotUnavailable)

	_, err = app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "10:00"))
	assertErr(t, err, ErrSlotUnavailable)

	if _, err := app.booking.UpdateStatus(ctx, first.ID, "pending"); err != nil {
		t.Fatalf("back to pending: %v", err)
	}
	if _, err := app.booking.UpdateStatus(ctx, second.ID, "confirmed"); err != nil {
		t.Fatalf("confirm second once the slot is released: %v", err)
	}
}

func TestCreateBookingRetriesOnReusedID(t *testing.T) {
	ids := idgen.NewWithClock(func() time.Time { return fixedNow })
	app := newTestAppWith(t, testOptions{ids: ids})
	ctx := context.Background()

	// Another process already stored an appointment under the next id.
	existing := &entity.Appointment{
		ID:        fixedNow.UnixMilli(),
		Date:      "2025-06-05",
		StartTime: "09:00",
		EndTime:   "10:00",
		Name:      "Elsewhere",
		Email:     "elsewhere@example.com",
		Status:    entity.AppointmentStatusPending,
	}
	if err := app.db.Create(existing).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	created, err := app.booking.CreateBooking(ctx, bookingRequest("2025-06-03", "10:00"))
	if err != nil {
		t.Fatalf("id collision must not look like a taken slot: %v", err)
	}
	if created.ID == existing.ID {
		t.Fatalf("booking reused id %d", created.ID)
	}

	list, err := app.booking.ListAppointments(ctx, "")
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("appointments = %d, want 2", list.Total)
	}
}
