package calendar

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	"beachvolley/internal/utils"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// BookingTitlePrefix starts the title of every event mirrored from a reservation.
	BookingTitlePrefix = "🏐 Beach Volley - "
	bookingMarker      = "Beach Volley"

	slotDuration = time.Hour
)

// Client mirrors reservations into a Google Calendar and reads back the
// events of a day, including blocks entered by hand in the calendar.
type Client struct {
	service    *gcal.Service
	calendarID string
	loc        *time.Location
	logger     *zap.Logger
}

// NewClient authenticates with a service account key (the JSON document
// downloaded from the Google Cloud console).
func NewClient(ctx context.Context, logger *zap.Logger, serviceAccountKey, calendarID string, loc *time.Location) (*Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON([]byte(serviceAccountKey), gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("invalid google service account key: %w", err)
	}

	service, err := gcal.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return NewClientWithService(service, logger, calendarID, loc), nil
}

func NewClientWithService(service *gcal.Service, logger *zap.Logger, calendarID string, loc *time.Location) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{service: service, calendarID: calendarID, loc: loc, logger: logger}
}

// Classify tells a mirrored reservation apart from any other titled event,
// which counts as a manual block.
func Classify(title string) entities.EventKind {
	if strings.Contains(title, bookingMarker) {
		return entities.EventReservation
	}
	return entities.EventBlock
}

// ListEvents returns the classified events starting on date.
func (c *Client) ListEvents(ctx context.Context, date string) ([]entities.CalendarEvent, error) {
	start, end, err := utils.DayBounds(date, c.loc)
	if err != nil {
		return nil, err
	}

	var items []*gcal.Event
	pageToken := ""
	for {
		call := c.service.Events.List(c.calendarID).
			ShowDeleted(false).
			SingleEvents(true).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve events: %w", err)
		}
		items = append(items, events.Items...)
		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}

	result := c.toEvents(items)
	c.logger.Debug("Fetched calendar events", zap.String("date", date), zap.Int("fetched", len(items)), zap.Int("kept", len(result)))
	return result, nil
}

// toEvents drops untitled events and events without a start time
// (all-day entries), then classifies the rest.
func (c *Client) toEvents(items []*gcal.Event) []entities.CalendarEvent {
	events := make([]entities.CalendarEvent, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Summary)
		if title == "" || title == "undefined" {
			continue
		}
		if item.Start == nil || item.Start.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			c.logger.Warn("Skipping event with unparsable start", zap.String("eventId", item.Id), zap.Error(err))
			continue
		}
		start = start.In(c.loc)
		end := start.Add(slotDuration)
		if item.End != nil && item.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				end = t.In(c.loc)
			}
		}

		events = append(events, entities.CalendarEvent{
			ID:    item.Id,
			Title: title,
			Start: start,
			End:   end,
			Time:  utils.LabelOf(start),
			Kind:  Classify(title),
		})
	}
	return events
}

// CreateReservationEvent inserts the one-hour event mirroring res and
// returns its id.
func (c *Client) CreateReservationEvent(ctx context.Context, res db.Reservation) (string, error) {
	start, err := utils.SlotStart(res.Date, res.Time, c.loc)
	if err != nil {
		return "", fmt.Errorf("invalid reservation slot: %w", err)
	}
	end := start.Add(slotDuration)

	event := &gcal.Event{
		Summary:     BookingTitlePrefix + res.Name,
		Description: describe(res),
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: c.loc.String()},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: c.loc.String()},
		ColorId:     "1",
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	c.logger.Info("Calendar event created", zap.String("eventId", created.Id), zap.String("reservationId", res.ID))
	return created.Id, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event %s: %w", eventID, err)
	}
	c.logger.Info("Calendar event deleted", zap.String("eventId", eventID))
	return nil
}

// Ping lists a single event to verify credentials and calendar access.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.service.Events.List(c.calendarID).MaxResults(1).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar not reachable: %w", err)
	}
	return nil
}

func describe(res db.Reservation) string {
	var b strings.Builder
	b.WriteString("Prenotazione Beach Volley\n\n")
	fmt.Fprintf(&b, "👤 Nome: %s\n", res.Name)
	fmt.Fprintf(&b, "📞 Telefono: %s\n", res.Phone)
	fmt.Fprintf(&b, "👥 Giocatori: %d\n", res.Players)
	fmt.Fprintf(&b, "📅 Data: %s\n", res.Date)
	fmt.Fprintf(&b, "🕐 Orario: %s", res.Time)
	if res.Note != "" {
		fmt.Fprintf(&b, "\n📝 Note: %s", res.Note)
	}
	return b.String()
}
