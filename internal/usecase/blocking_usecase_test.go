package usecase

import (
	"context"
	"testing"

	"studio-booking/internal/delivery/dto"
)

func TestReplaceBlockedSlots(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	if _, err := app.blocking.BlockSlots(ctx, &dto.BlockSlotsRequest{Date: "2025-06-09", StartTimes: []string{"09:00"}}); err != nil {
		t.Fatalf("BlockSlots: %v", err)
	}

	replaced, err := app.blocking.ReplaceBlockedSlots(ctx, []dto.BlockedSlotInput{
		{Date: "2025-06-10", StartTime: "10:00"},
		{Date: "2025-06-10", StartTime: "10:00", Reason: "duplicate"},
		{Date: "2025-06-11", StartTime: "14:00", EndTime: "15:30", Reason: "Shoot"},
	})
	if err != nil {
		t.Fatalf("ReplaceBlockedSlots: %v", err)
	}
	if replaced.Total != 2 {
		t.Fatalf("total = %d, want 2", replaced.Total)
	}
	first := replaced.BlockedSlots[0]
	if first.Date != "2025-06-10" || first.EndTime != "11:00" || first.Reason != "Unavailable" {
		t.Fatalf("defaults not applied: %+v", first)
	}
	if replaced.BlockedSlots[1].EndTime != "15:30" {
		t.Fatalf("explicit end time lost: %+v", replaced.BlockedSlots[1])
	}

	slots, _ := app.booking.GetAvailableSlots(ctx, "2025-06-09")
	if !containsSlot(slots.AvailableSlots, "09:00") {
		t.Fatal("old block should be gone after replace")
	}

	cleared, err := app.blocking.ReplaceBlockedSlots(ctx, nil)
	if err != nil || cleared.Total != 0 {
		t.Fatalf("clear: %+v, %v", cleared, err)
	}

	_, err = app.blocking.ReplaceBlockedSlots(ctx, []dto.BlockedSlotInput{{Date: "2025-13-40", StartTime: "10:00"}})
	assertErr(t, err, ErrInvalidDateFormat)
}

func TestBlockAndUnblockSlots(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	req := &dto.BlockSlotsRequest{Date: "2025-06-12", StartTimes: []string{"09:00", "10:00"}, Reason: "Maintenance"}
	if _, err := app.blocking.BlockSlots(ctx, req); err != nil {
		t.Fatalf("BlockSlots: %v", err)
	}
	again, err := app.blocking.BlockSlots(ctx, req)
	if err != nil || again.Total != 2 {
		t.Fatalf("blocking twice should be idempotent: %+v, %v", again, err)
	}

	if err := app.blocking.UnblockSlot(ctx, &dto.UnblockSlotRequest{Date: "2025-06-12", StartTime: "09:00"}); err != nil {
		t.Fatalf("UnblockSlot: %v", err)
	}
	err = app.blocking.UnblockSlot(ctx, &dto.UnblockSlotRequest{Date: "2025-06-12", StartTime: "09:00"})
	assertErr(t, err, ErrBlockedSlotNotFound)

	list, _ := app.blocking.ListBlockedSlots(ctx)
	if list.Total != 1 {
		t.Fatalf("remaining = %d", list.Total)
	}
	if err := app.blocking.DeleteBlockedSlot(ctx, list.BlockedSlots[0].ID); err != nil {
		t.Fatalf("DeleteBlockedSlot: %v", err)
	}
	assertErr(t, app.blocking.DeleteBlockedSlot(ctx, list.BlockedSlots[0].ID), ErrBlockedSlotNotFound)
}

func TestBlockAndUnblockDate(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	blocked, err := app.blocking.BlockDate(ctx, &dto.BlockDateRequest{Date: "2025-06-20"})
	if err != nil {
		t.Fatalf("BlockDate: %v", err)
	}
	if blocked.Reason != "Unavailable" {
		t.Fatalf("reason = %q", blocked.Reason)
	}
	if _, err := app.blocking.BlockDate(ctx, &dto.BlockDateRequest{Date: "2025-06-20", Reason: "Again"}); err != nil {
		t.Fatalf("blocking twice: %v", err)
	}

	dates, _ := app.blocking.ListBlockedDates(ctx)
	if dates.Total != 1 || dates.BlockedDates[0].Reason != "Unavailable" {
		t.Fatalf("blocked dates: %+v", dates)
	}

	slots, _ := app.booking.GetAvailableSlots(ctx, "2025-06-20")
	if len(slots.AvailableSlots) != 0 {
		t.Fatalf("blocked date has slots: %v", slots.AvailableSlots)
	}

	if err := app.blocking.UnblockDate(ctx, "2025-06-20"); err != nil {
		t.Fatalf("UnblockDate: %v", err)
	}
	assertErr(t, app.blocking.UnblockDate(ctx, "2025-06-20"), ErrBlockedDateNotFound)

	slots, _ = app.booking.GetAvailableSlots(ctx, "2025-06-20")
	if len(slots.AvailableSlots) != 8 {
		t.Fatalf("unblocked date slots: %v", slots.AvailableSlots)
	}

	_, err = app.blocking.BlockDate(ctx, &dto.BlockDateRequest{Date: "20-06-2025"})
	assertErr(t, err, ErrInvalidDateFormat)
}
