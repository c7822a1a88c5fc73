package ad

// Type identifies the ad format that produced an event.
type Type string

const (
	TypeUndefined       Type = ""
	TypeSearchResult    Type = "search_result_ad"
	TypeNotification    Type = "notification_ad"
	TypeNewTabPage      Type = "new_tab_page_ad"
	TypeInlineContent   Type = "inline_content_ad"
	TypePromotedContent Type = "promoted_content_ad"
)

// validTypes lists the recognised ad types.
var validTypes = map[Type]bool{
	TypeSearchResult:    true,
	TypeNotification:    true,
	TypeNewTabPage:      true,
	TypeInlineContent:   true,
	TypePromotedContent: true,
}

// IsValid reports whether t is a recognised ad type.
func (t Type) IsValid() bool {
	return validTypes[t]
}

func (t Type) String() string {
	return string(t)
}

// ConfirmationType is the kind of lifecycle or interaction event.
// Ranking decisions are computed over this field.
type ConfirmationType string

const (
	ConfirmationUndefined   ConfirmationType = ""
	ConfirmationServed      ConfirmationType = "served"
	ConfirmationViewed      ConfirmationType = "view"
	ConfirmationClicked     ConfirmationType = "click"
	ConfirmationDismissed   ConfirmationType = "dismiss"
	ConfirmationLanded      ConfirmationType = "landed"
	ConfirmationSavedAd     ConfirmationType = "saved"
	ConfirmationFlaggedAd   ConfirmationType = "flagged"
	ConfirmationUpvoted     ConfirmationType = "upvoted"
	ConfirmationDownvoted   ConfirmationType = "downvoted"
	ConfirmationConversion  ConfirmationType = "conversion"
	ConfirmationMediaPlay   ConfirmationType = "media_play"
	ConfirmationMedia25     ConfirmationType = "media_25"
	ConfirmationMedia100    ConfirmationType = "media_100"
	ConfirmationInteraction ConfirmationType = "interaction"
)

var validConfirmationTypes = map[ConfirmationType]bool{
	ConfirmationServed:      true,
	ConfirmationViewed:      true,
	ConfirmationClicked:     true,
	ConfirmationDismissed:   true,
	ConfirmationLanded:      true,
	ConfirmationSavedAd:     true,
	ConfirmationFlaggedAd:   true,
	ConfirmationUpvoted:     true,
	ConfirmationDownvoted:   true,
	ConfirmationConversion:  true,
	ConfirmationMediaPlay:   true,
	ConfirmationMedia25:     true,
	ConfirmationMedia100:    true,
	ConfirmationInteraction: true,
}

// IsValid reports whether c is a recognised confirmation type.
func (c ConfirmationType) IsValid() bool {
	return validConfirmationTypes[c]
}

func (c ConfirmationType) String() string {
	return string(c)
}
