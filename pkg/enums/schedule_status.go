package enums

import "fmt"

// ScheduleStatus describes the allowed values for the `status` column in scheduling.
type ScheduleStatus string

const (
	ScheduleStatusPending  ScheduleStatus = "pending"
	ScheduleStatusAccepted ScheduleStatus = "accepted"
	ScheduleStatusRejected ScheduleStatus = "rejected"
)

var validScheduleStatuses = []ScheduleStatus{
	ScheduleStatusPending,
	ScheduleStatusAccepted,
	ScheduleStatusRejected,
}

// IsValid reports whether the value matches the canonical schedule status enum.
func (s ScheduleStatus) IsValid() bool {
	for _, candidate := range validScheduleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is defined from the status.
func (s ScheduleStatus) IsTerminal() bool {
	return s == ScheduleStatusAccepted || s == ScheduleStatusRejected
}

// ParseScheduleStatus converts the raw string to ScheduleStatus.
func ParseScheduleStatus(value string) (ScheduleStatus, error) {
	for _, candidate := range validScheduleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid schedule status %q", value)
}
