package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client is the calendar backend the sync service talks to.
type Client interface {
	// FindEvent looks up an event by exact title on the given day.
	// Returns the event ID, or "" if no event matches.
	FindEvent(title string, date time.Time) (string, error)
	CreateEvent(event *Event) error
	UpdateEvent(eventID string, event *Event) error
}

// GoogleClient talks to the Google Calendar v3 REST API using a bearer
// token. Events live on the primary calendar.
type GoogleClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     zerolog.Logger
}

// NewGoogleClient creates a new Google Calendar client
func NewGoogleClient(token string, log zerolog.Logger) *GoogleClient {
	return &GoogleClient{
		baseURL: "https://www.googleapis.com/calendar/v3",
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log.With().Str("client", "google-calendar").Logger(),
	}
}

type listedEvent struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type eventList struct {
	Items []listedEvent `json:"items"`
}

// FindEvent searches the expiration day for an event with the exact title.
func (c *GoogleClient) FindEvent(title string, date time.Time) (string, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	query := title
	if len(query) > 50 {
		query = query[:50]
	}

	params := url.Values{}
	params.Set("timeMin", dayStart.Format(time.RFC3339))
	params.Set("timeMax", dayEnd.Format(time.RFC3339))
	params.Set("singleEvents", "true")
	params.Set("q", query)

	var list eventList
	if err := c.do(http.MethodGet, "/calendars/primary/events?"+params.Encode(), nil, &list); err != nil {
		return "", err
	}

	for _, item := range list.Items {
		if item.Summary == title {
			return item.ID, nil
		}
	}
	return "", nil
}

// CreateEvent inserts a new event on the primary calendar.
func (c *GoogleClient) CreateEvent(event *Event) error {
	return c.do(http.MethodPost, "/calendars/primary/events", event, nil)
}

// UpdateEvent replaces an existing event's body.
func (c *GoogleClient) UpdateEvent(eventID string, event *Event) error {
	return c.do(http.MethodPut, "/calendars/primary/events/"+url.PathEscape(eventID), event, nil)
}

func (c *GoogleClient) do(method, path string, body, out interface{}) error {
	var payload *bytes.Buffer
	if body != nil {
		payload = new(bytes.Buffer)
		if err := json.NewEncoder(payload).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
