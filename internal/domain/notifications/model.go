package notifications

import (
	"strconv"
	"time"

	"meditrack/internal/domain/schedule"
)

type Type string

const (
	TypeReminder    Type = "reminder"
	TypeAppointment Type = "appointment"
	TypeRefill      Type = "refill"
)

func (t Type) Valid() bool {
	switch t {
	case TypeReminder, TypeAppointment, TypeRefill:
		return true
	default:
		return false
	}
}

type Notification struct {
	ID     string
	UserID string

	Type    Type
	Title   string
	Message string
	Read    bool

	// Dose solo existe en recordatorios; sirve para no duplicarlos.
	Dose *schedule.DoseKey

	CreatedAt time.Time
}

// Badge es el texto del contador: "" si no hay, "9+" a partir de 10.
func Badge(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > 9:
		return "9+"
	default:
		return strconv.Itoa(unread)
	}
}
