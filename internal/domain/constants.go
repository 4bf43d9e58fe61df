package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes       = 30
	DefaultMaxConcurrentBookings     = 1
	DefaultAdvanceBookingDays        = 60 // 0 = unlimited
	DefaultMinBookingNoticeMinutes   = 60
	DefaultCancellationNoticeMinutes = 120
	DefaultWaitlistHoldMinutes       = 60
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480
	MinConcurrentBookings       = 1
	MaxConcurrentBookings       = 100
	MaxAdvanceBookingDays       = 365
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxCancellationNotice       = 10080
	MaxWaitlistHoldMinutes      = 1440
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxReviewCommentLength      = 1000
	MaxCaptionLength            = 300
	MinPasswordLength           = 8
	MinRating                   = 1
	MaxRating                   = 5
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы записей, занимающих время в расписании
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
