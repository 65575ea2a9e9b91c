package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 60
	FreeWindowStepMinutes      = 30 // шаг скользящего окна в listFreeWindows
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MaxCommentLength       = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
