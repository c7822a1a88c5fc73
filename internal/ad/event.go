package ad

import (
	"fmt"
	"net/url"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Event is one logged ad interaction.
type Event struct {
	CreatedAt          time.Time        `json:"created_at"`
	Type               Type             `json:"type"`
	ConfirmationType   ConfirmationType `json:"confirmation_type"`
	PlacementID        string           `json:"placement_id"`
	CreativeInstanceID string           `json:"creative_instance_id"`
	CreativeSetID      string           `json:"creative_set_id"`
	CampaignID         string           `json:"campaign_id"`
	AdvertiserID       string           `json:"advertiser_id"`
	Segment            string           `json:"segment"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	TargetURL          string           `json:"target_url"`
}

// ValidationError names the field that made an event invalid.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid ad event: %s %s", e.Field, e.Message)
}

// Validate returns the first rule the event breaks, or nil.
func (e Event) Validate() error {
	if e.CreatedAt.IsZero() {
		return &ValidationError{Field: "created_at", Message: "is required"}
	}
	if !e.Type.IsValid() {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("%q is not a recognised ad type", e.Type)}
	}
	if !e.ConfirmationType.IsValid() {
		return &ValidationError{Field: "confirmation_type", Message: fmt.Sprintf("%q is not a recognised confirmation type", e.ConfirmationType)}
	}

	required := []struct {
		field string
		value string
	}{
		{"placement_id", e.PlacementID},
		{"creative_instance_id", e.CreativeInstanceID},
		{"creative_set_id", e.CreativeSetID},
		{"campaign_id", e.CampaignID},
		{"advertiser_id", e.AdvertiserID},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}

	if !isAbsoluteURL(e.TargetURL) {
		return &ValidationError{Field: "target_url", Message: fmt.Sprintf("%q is not an absolute URL", e.TargetURL)}
	}

	return nil
}

// IsValid reports whether the event may be persisted or returned.
func (e Event) IsValid() bool {
	return e.Validate() == nil
}

// Normalize returns a copy with text fields in Unicode NFC form and the
// timestamp in UTC, so equal strings compare equal once stored.
func (e Event) Normalize() Event {
	e.CreatedAt = e.CreatedAt.UTC()
	e.Segment = norm.NFC.String(e.Segment)
	e.Title = norm.NFC.String(e.Title)
	e.Description = norm.NFC.String(e.Description)
	return e
}

func isAbsoluteURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}
