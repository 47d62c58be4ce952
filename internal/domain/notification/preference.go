// internal/domain/notification/preference.go
package notification

// DeliveryMode says through which channels a user wants a category
// delivered. The enumeration is closed: every switch over it handles all
// four variants explicitly.
type DeliveryMode string

const (
	ModeNone  DeliveryMode = "NONE"
	ModeEmail DeliveryMode = "EMAIL"
	ModePopup DeliveryMode = "POPUP"
	ModeAll   DeliveryMode = "ALL"
)

// LeadTime is how far before an event's start the upcoming-event reminder
// should fire.
type LeadTime string

const (
	LeadTenMinutes    LeadTime = "TEN_MINUTES"
	LeadThirtyMinutes LeadTime = "THIRTY_MINUTES"
	LeadOneHour       LeadTime = "ONE_HOUR"
	LeadOneDay        LeadTime = "ONE_DAY"
)

// Seconds converts the band to the tolerance threshold used by the
// time-window evaluator.
func (l LeadTime) Seconds() int64 {
	switch l {
	case LeadTenMinutes:
		return 600
	case LeadThirtyMinutes:
		return 1800
	case LeadOneHour:
		return 3600
	case LeadOneDay:
		return 86400
	default:
		return 0
	}
}

// Preferences is a user's stored notification settings: one delivery mode
// per category plus the upcoming-event lead time. Owned by the user
// directory; the engine only ever reads it.
type Preferences struct {
	EventChanged      DeliveryMode
	InviteGuest       DeliveryMode
	UninviteGuest     DeliveryMode
	UserStatusChanged DeliveryMode
	UserRoleChanged   DeliveryMode
	CancelEvent       DeliveryMode
	UpcomingEvent     DeliveryMode
	UpcomingLeadTime  LeadTime
}

// NewDefaultPreferences returns the settings written at account creation:
// everything off except upcoming-event reminders on both channels, ten
// minutes ahead. Defaults are stored, never invented at read time.
func NewDefaultPreferences() Preferences {
	return Preferences{
		EventChanged:      ModeNone,
		InviteGuest:       ModeNone,
		UninviteGuest:     ModeNone,
		UserStatusChanged: ModeNone,
		UserRoleChanged:   ModeNone,
		CancelEvent:       ModeNone,
		UpcomingEvent:     ModeAll,
		UpcomingLeadTime:  LeadTenMinutes,
	}
}

// ModeFor returns the delivery mode stored for the given category.
// REGISTER is not a user choice: the welcome mail always goes out by email,
// whatever the stored settings say.
func (p Preferences) ModeFor(c Category) DeliveryMode {
	switch c {
	case CategoryEventChanged:
		return p.EventChanged
	case CategoryInviteGuest:
		return p.InviteGuest
	case CategoryUninviteGuest:
		return p.UninviteGuest
	case CategoryUserStatusChanged:
		return p.UserStatusChanged
	case CategoryUserRoleChanged:
		return p.UserRoleChanged
	case CategoryCancelEvent:
		return p.CancelEvent
	case CategoryUpcomingEvent:
		return p.UpcomingEvent
	case CategoryRegister:
		return ModeEmail
	default:
		return ModeNone
	}
}
