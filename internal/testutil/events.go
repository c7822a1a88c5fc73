package testutil

import (
	"fmt"
	"time"

	"github.com/roach88/adhistory/internal/ad"
)

// EventOption customises an event built by NewEvent.
type EventOption func(*ad.Event)

// NewEvent returns a valid notification ad view created at Epoch.
// Ids are derived from placementID so events for different placements
// never collide.
func NewEvent(placementID string, opts ...EventOption) ad.Event {
	e := ad.Event{
		CreatedAt:          Epoch,
		Type:               ad.TypeNotification,
		ConfirmationType:   ad.ConfirmationViewed,
		PlacementID:        placementID,
		CreativeInstanceID: "creative-instance-" + placementID,
		CreativeSetID:      "creative-set-1",
		CampaignID:         "campaign-1",
		AdvertiserID:       "advertiser-1",
		Segment:            "technology & computing",
		Title:              "Title " + placementID,
		Description:        "Description " + placementID,
		TargetURL:          "https://brave.com/" + placementID,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// At sets CreatedAt.
func At(t time.Time) EventOption {
	return func(e *ad.Event) { e.CreatedAt = t }
}

// AtOffset sets CreatedAt to Epoch plus d.
func AtOffset(d time.Duration) EventOption {
	return At(Epoch.Add(d))
}

// Confirmation sets the confirmation type.
func Confirmation(c ad.ConfirmationType) EventOption {
	return func(e *ad.Event) { e.ConfirmationType = c }
}

// OfType sets the ad type.
func OfType(t ad.Type) EventOption {
	return func(e *ad.Event) { e.Type = t }
}

// CreativeInstance sets the creative instance id.
func CreativeInstance(id string) EventOption {
	return func(e *ad.Event) { e.CreativeInstanceID = id }
}

// Invalid clears the target URL, which makes the event fail validation.
func Invalid() EventOption {
	return func(e *ad.Event) { e.TargetURL = "" }
}

// NewEvents returns n valid events with placement ids "<prefix>-1" to
// "<prefix>-n", one second apart starting at Epoch.
func NewEvents(prefix string, n int) []ad.Event {
	events := make([]ad.Event, 0, n)
	for i := 1; i <= n; i++ {
		events = append(events, NewEvent(fmt.Sprintf("%s-%d", prefix, i), AtOffset(time.Duration(i)*time.Second)))
	}
	return events
}
