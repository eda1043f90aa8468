// Package availability computes bookable time slots from working hours,
// existing reservations and administrator blocks. It performs no I/O.
package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// Window is the number of consecutive days returned by Next20Days.
	Window = 20
)

// WorkingHours is the daily bookable range. Start and End use HH:MM.
type WorkingHours struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	SlotDuration int    `json:"slotDuration"`
}

// DefaultWorkingHours is 09:00-17:00 with one hour slots.
var DefaultWorkingHours = WorkingHours{Start: "09:00", End: "17:00", SlotDuration: 60}

// Valid reports whether both bounds parse, Start < End and SlotDuration > 0.
func (wh WorkingHours) Valid() bool {
	start, err := ParseClock(wh.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(wh.End)
	if err != nil {
		return false
	}
	return start < end && wh.SlotDuration > 0
}

// SlotEnd returns startTime plus one slot duration.
func (wh WorkingHours) SlotEnd(startTime string) (string, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return "", err
	}
	return FormatClock(start + wh.SlotDuration), nil
}

// OnGrid reports whether startTime is one of the generated slots.
func (wh WorkingHours) OnGrid(startTime string) bool {
	for _, slot := range GenerateAllSlots(wh) {
		if slot == startTime {
			return true
		}
	}
	return false
}

// StatusSet names the appointment statuses that occupy a slot.
type StatusSet map[string]struct{}

// NewStatusSet builds a StatusSet from the given statuses.
func NewStatusSet(statuses ...string) StatusSet {
	set := make(StatusSet, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// ParseStatusSet reads a comma separated status list such as "pending,confirmed".
func ParseStatusSet(csv string) StatusSet {
	var statuses []string
	for _, s := range strings.Split(csv, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			statuses = append(statuses, s)
		}
	}
	return NewStatusSet(statuses...)
}

func (s StatusSet) Contains(status string) bool {
	_, ok := s[status]
	return ok
}

// Sorted returns the statuses in lexical order.
func (s StatusSet) Sorted() []string {
	statuses := make([]string, 0, len(s))
	for status := range s {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	return statuses
}

var (
	// DefaultOccupied treats every live appointment as holding its slot.
	DefaultOccupied = NewStatusSet("pending", "confirmed")

	// ConfirmedOnly frees a slot until the appointment is confirmed.
	ConfirmedOnly = NewStatusSet("confirmed")
)

// Reservation is the part of an appointment the engine needs.
type Reservation struct {
	Date      string
	StartTime string
	Status    string
}

// Block is an administrator-blocked slot.
type Block struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

// DayAvailability is one entry of the rolling booking window.
type DayAvailability struct {
	Date            string   `json:"date"`
	IsBlocked       bool     `json:"isBlocked"`
	HasReservations bool     `json:"hasReservations"`
	AvailableSlots  []string `json:"availableSlots"`
	AllSlots        []string `json:"allSlots"`
	BlockedSlots    []Block  `json:"blockedSlots"`
}

// Input bundles the state the engine evaluates.
type Input struct {
	Reservations []Reservation
	Blocks       []Block
	BlockedDates []string
	Hours        WorkingHours
	Occupied     StatusSet
}

// ParseClock converts HH:MM into minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes since midnight into zero-padded HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateAllSlots returns the slot start times from Start, stepping by
// SlotDuration, while the start is strictly before End. A trailing partial
// period is dropped. Invalid hours yield an empty list.
func GenerateAllSlots(wh WorkingHours) []string {
	slots := []string{}
	if !wh.Valid() {
		return slots
	}

	start, _ := ParseClock(wh.Start)
	end, _ := ParseClock(wh.End)
	for current := start; current < end; current += wh.SlotDuration {
		slots = append(slots, FormatClock(current))
	}
	return slots
}

// AvailableSlots returns the slots of date that are neither reserved by an
// occupied status nor blocked. A blocked date yields an empty list.
func AvailableSlots(date string, in Input) []string {
	available := []string{}
	if !in.Hours.Valid() || containsString(in.BlockedDates, date) {
		return available
	}

	taken := make(map[string]struct{})
	for _, r := range in.Reservations {
		if r.Date == date && in.Occupied.Contains(r.Status) {
			taken[r.StartTime] = struct{}{}
		}
	}
	for _, b := range in.Blocks {
		if b.Date == date {
			taken[b.StartTime] = struct{}{}
		}
	}

	for _, slot := range GenerateAllSlots(in.Hours) {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available
}

// Day evaluates a single date.
func Day(date string, in Input) DayAvailability {
	day := DayAvailability{
		Date:           date,
		IsBlocked:      containsString(in.BlockedDates, date),
		AvailableSlots: AvailableSlots(date, in),
		AllSlots:       GenerateAllSlots(in.Hours),
		BlockedSlots:   []Block{},
	}

	for _, r := range in.Reservations {
		if r.Date == date && in.Occupied.Contains(r.Status) {
			day.HasReservations = true
			break
		}
	}
	for _, b := range in.Blocks {
		if b.Date == date {
			day.BlockedSlots = append(day.BlockedSlots, b)
		}
	}
	return day
}

// NextDays returns n consecutive dates starting at the calendar day of today.
func NextDays(today time.Time, n int, in Input) []DayAvailability {
	if n < 0 {
		n = 0
	}
	days := make([]DayAvailability, 0, n)
	first := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	for i := 0; i < n; i++ {
		date := first.AddDate(0, 0, i).Format(DateLayout)
		days = append(days, Day(date, in))
	}
	return days
}

// Next20Days is NextDays over the standard booking window.
func Next20Days(today time.Time, in Input) []DayAvailability {
	return NextDays(today, Window, in)
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
