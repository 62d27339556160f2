package calendar

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gcal.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return NewClientWithService(svc, zap.NewNop(), "court", loc)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, entities.EventReservation, Classify("🏐 Beach Volley - Mario"))
	assert.Equal(t, entities.EventReservation, Classify("Beach Volley torneo"))
	assert.Equal(t, entities.EventBlock, Classify("Manutenzione campo"))
}

func TestListEventsClassifiesAndSkips(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": "e1", "summary": "🏐 Beach Volley - Mario",
					"start": map[string]string{"dateTime": "2025-07-14T19:00:00+02:00"},
					"end":   map[string]string{"dateTime": "2025-07-14T20:00:00+02:00"}},
				{"id": "e2", "summary": "Manutenzione",
					"start": map[string]string{"dateTime": "2025-07-14T19:00:00Z"}},
				{"id": "e3", "summary": "",
					"start": map[string]string{"dateTime": "2025-07-14T18:00:00+02:00"}},
				{"id": "e4", "summary": "Ferragosto",
					"start": map[string]string{"date": "2025-07-14"}},
			},
		})
	})

	events, err := client.ListEvents(context.Background(), "2025-07-14")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "19:00", events[0].Time)
	assert.Equal(t, entities.EventReservation, events[0].Kind)

	// 19:00Z is 21:00 in Rome during summer time.
	assert.Equal(t, "21:00", events[1].Time)
	assert.Equal(t, entities.EventBlock, events[1].Kind)
	assert.Equal(t, time.Hour, events[1].End.Sub(events[1].Start))

	assert.Equal(t, []string{"true"}, gotQuery["singleEvents"])
	assert.Equal(t, []string{"2025-07-14T00:00:00+02:00"}, gotQuery["timeMin"])
}

func TestListEventsRejectsBadDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := client.ListEvents(context.Background(), "14-07-2025")
	assert.Error(t, err)
}

func TestListEventsPropagatesFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend error", http.StatusInternalServerError)
	})
	_, err := client.ListEvents(context.Background(), "2025-07-14")
	assert.Error(t, err)
}

func TestCreateReservationEvent(t *testing.T) {
	var got gcal.Event
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "evt-new"})
	})

	id, err := client.CreateReservationEvent(context.Background(), db.Reservation{
		ID: "r1", Name: "Mario", Phone: "+39333", Date: "2025-07-14", Time: "19:00", Players: 8, Note: "porta palloni",
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-new", id)
	assert.Equal(t, "🏐 Beach Volley - Mario", got.Summary)
	assert.Equal(t, "2025-07-14T19:00:00+02:00", got.Start.DateTime)
	assert.Equal(t, "2025-07-14T20:00:00+02:00", got.End.DateTime)
	assert.Contains(t, got.Description, "📝 Note: porta palloni")
	assert.Equal(t, entities.EventReservation, Classify(got.Summary))
}

func TestCreateReservationEventOnDSTDays(t *testing.T) {
	cases := []struct {
		date, start, end string
	}{
		{"2025-03-30", "2025-03-30T19:00:00+02:00", "2025-03-30T20:00:00+02:00"},
		{"2025-10-26", "2025-10-26T19:00:00+01:00", "2025-10-26T20:00:00+01:00"},
	}
	for _, tc := range cases {
		t.Run(tc.date, func(t *testing.T) {
			var got gcal.Event
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"id": "evt-dst"})
			})

			_, err := client.CreateReservationEvent(context.Background(), db.Reservation{
				ID: "r1", Name: "Mario", Phone: "+39333", Date: tc.date, Time: "19:00", Players: 4,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.start, got.Start.DateTime)
			assert.Equal(t, tc.end, got.End.DateTime)

			got.Id = "evt-dst"
			events := client.toEvents([]*gcal.Event{&got})
			require.Len(t, events, 1)
			assert.Equal(t, "19:00", events[0].Time)
			assert.Equal(t, entities.EventReservation, events[0].Kind)
		})
	}
}

func TestDeleteEvent(t *testing.T) {
	var method, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteEvent(context.Background(), "evt-1"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/calendars/court/events/evt-1", path)
}
