package service

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	apperrors "beachvolley/internal/errors"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRequest(label string) *entities.ReservationRequest {
	return &entities.ReservationRequest{
		Name:    "Mario Rossi",
		Phone:   "333 1234567",
		Date:    "2025-07-14",
		Time:    label,
		Players: 8,
		Note:    "porto il pallone",
	}
}

func TestCreateReservationValidation(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	cases := map[string]func(r *entities.ReservationRequest){
		"missing name":     func(r *entities.ReservationRequest) { r.Name = "  " },
		"missing phone":    func(r *entities.ReservationRequest) { r.Phone = "" },
		"missing date":     func(r *entities.ReservationRequest) { r.Date = "" },
		"missing time":     func(r *entities.ReservationRequest) { r.Time = "" },
		"missing players":  func(r *entities.ReservationRequest) { r.Players = 0 },
		"negative players": func(r *entities.ReservationRequest) { r.Players = -2 },
		"bad date":         func(r *entities.ReservationRequest) { r.Date = "2025-13-01" },
		"bad time":         func(r *entities.ReservationRequest) { r.Time = "7pm" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := bookingRequest("19:00")
			mutate(req)
			_, err := h.reservations.CreateReservation(ctx, req)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
		})
	}
	assert.Empty(t, h.mem.reservations)
}

func TestCreateReservationStoresConfirmedBooking(t *testing.T) {
	h := newHarness(nil)
	h.mem.config[KeyOpeningHours] = "09:00-23:00"

	res, err := h.reservations.CreateReservation(context.Background(), bookingRequest("9:00"))
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "09:00", res.Time)
	assert.Equal(t, db.StatusConfirmed, res.Status)
	assert.Equal(t, fixedNow(), res.CreatedAt)
	assert.Empty(t, res.ExternalEventID)
	require.Len(t, h.notifier.booked, 1)
	assert.Equal(t, res.ID, h.notifier.booked[0].ID)
}

func TestCreateReservationRejectsLabelsOutsideGrid(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	for _, label := range []string{"19:30", "03:00", "23:00", "17:00"} {
		_, err := h.reservations.CreateReservation(ctx, bookingRequest(label))
		require.Error(t, err, label)
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err), label)
	}
	assert.Empty(t, h.mem.reservations)

	h.mem.config[KeyOpeningHours] = "16:00-23:00"
	_, err := h.reservations.CreateReservation(ctx, bookingRequest("17:00"))
	assert.NoError(t, err)
}

func TestCreateReservationEnforcesMaxPlayers(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()
	h.mem.config[KeyMaxPlayers] = "6"

	_, err := h.reservations.CreateReservation(ctx, bookingRequest("19:00"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	assert.Empty(t, h.mem.reservations)

	req := bookingRequest("19:00")
	req.Players = 6
	_, err = h.reservations.CreateReservation(ctx, req)
	assert.NoError(t, err)
}

func TestCreateReservationConflicts(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	_, err := h.reservations.CreateReservation(ctx, bookingRequest("19:00"))
	require.NoError(t, err)
	_, err = h.reservations.CreateReservation(ctx, bookingRequest("19:00"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))

	require.NoError(t, h.mem.UpsertBlockedSlot(ctx, &db.BlockedSlot{Date: "2025-07-14", Time: "20:00", Kind: db.BlockKindBlocked}))
	_, err = h.reservations.CreateReservation(ctx, bookingRequest("20:00"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))

	assert.Len(t, h.mem.reservations, 1)
}

func TestCreateReservationMirrorsToCalendar(t *testing.T) {
	cal := newFakeCalendar()
	h := newHarness(cal)
	ctx := context.Background()

	res, err := h.reservations.CreateReservation(ctx, bookingRequest("19:00"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.ExternalEventID)

	stored, err := h.mem.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ExternalEventID, stored.ExternalEventID)
}

func TestCreateReservationMirrorFailureIsNotFatal(t *testing.T) {
	cal := newFakeCalendar()
	cal.createErr = errors.New("quota exceeded")
	h := newHarness(cal)

	res, err := h.reservations.CreateReservation(context.Background(), bookingRequest("19:00"))
	require.NoError(t, err)
	assert.Empty(t, res.ExternalEventID)
	assert.Len(t, h.mem.reservations, 1)
}

func TestCancelReservationNotFound(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()
	_, err := h.reservations.CreateReservation(ctx, bookingRequest("19:00"))
	require.NoError(t, err)

	err = h.reservations.CancelReservation(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
	assert.Len(t, h.mem.reservations, 1)
	assert.Empty(t, h.mem.deletes)
	assert.Empty(t, h.notifier.cancelled)
}

func TestCancelReservationDeletesRemoteEvent(t *testing.T) {
	cal := newFakeCalendar()
	h := newHarness(cal)
	ctx := context.Background()

	res, err := h.reservations.CreateReservation(ctx, bookingRequest("19:00"))
	require.NoError(t, err)

	require.NoError(t, h.reservations.CancelReservation(ctx, res.ID))
	assert.Equal(t, []string{res.ExternalEventID}, cal.deleted)
	assert.Empty(t, h.mem.reservations)
	require.Len(t, h.notifier.cancelled, 1)
}

func TestBookingRoundTrip(t *testing.T) {
	cal := newFakeCalendar()
	h := newHarness(cal)
	ctx := context.Background()
	date := "2025-07-14"

	views, err := h.availability.GetAvailability(ctx, date)
	require.NoError(t, err)
	require.Len(t, views, 5)
	assert.Equal(t, "18:00", views[0].Time)
	assert.Equal(t, "22:00", views[4].Time)
	for _, v := range views {
		assert.Equal(t, entities.SlotFree, v.Status)
	}

	res, err := h.reservations.CreateReservation(ctx, bookingRequest("19:00"))
	require.NoError(t, err)

	views, err = h.availability.GetAvailability(ctx, date)
	require.NoError(t, err)
	statuses := statusByTime(views)
	assert.Equal(t, entities.SlotBooked, statuses["19:00"])
	for _, label := range []string{"18:00", "20:00", "21:00", "22:00"} {
		assert.Equal(t, entities.SlotFree, statuses[label], label)
	}

	_, err = h.reservations.CreateReservation(ctx, bookingRequest("19:00"))
	assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))

	require.NoError(t, h.reservations.CancelReservation(ctx, res.ID))
	views, err = h.availability.GetAvailability(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, entities.SlotFree, statusByTime(views)["19:00"])
}

func TestListReservationsRejectsBadDate(t *testing.T) {
	h := newHarness(nil)
	_, err := h.reservations.ListReservations(context.Background(), "ieri")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
}

func TestExportICS(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()
	_, err := h.reservations.CreateReservation(ctx, bookingRequest("19:00"))
	require.NoError(t, err)
	_, err = h.reservations.CreateReservation(ctx, bookingRequest("21:00"))
	require.NoError(t, err)

	feed, err := h.reservations.ExportICS(ctx)
	require.NoError(t, err)

	cal, err := ical.ParseCalendar(strings.NewReader(feed))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	summary := events[0].GetProperty(ical.ComponentPropertySummary)
	require.NotNil(t, summary)
	assert.Equal(t, "Beach Volley - Mario Rossi", summary.Value)

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, 17, start.UTC().Hour())
}

func TestExportICSOnDSTDays(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()
	for _, date := range []string{"2025-03-30", "2025-10-26"} {
		req := bookingRequest("19:00")
		req.Date = date
		_, err := h.reservations.CreateReservation(ctx, req)
		require.NoError(t, err)
	}

	feed, err := h.reservations.ExportICS(ctx)
	require.NoError(t, err)
	cal, err := ical.ParseCalendar(strings.NewReader(feed))
	require.NoError(t, err)

	starts := map[string]int{}
	for _, event := range cal.Events() {
		start, err := event.GetStartAt()
		require.NoError(t, err)
		starts[start.In(rome()).Format("2006-01-02")] = start.In(rome()).Hour()
	}
	assert.Equal(t, map[string]int{"2025-03-30": 19, "2025-10-26": 19}, starts)
}
