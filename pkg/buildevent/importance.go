package buildevent

import (
	"fmt"
	"strings"
)

// Importance is the severity of a Message event.
type Importance uint8

const (
	ImportanceHigh Importance = iota
	ImportanceNormal
	ImportanceLow
)

// String returns the label written to the report's importance attribute.
func (i Importance) String() string {
	switch i {
	case ImportanceHigh:
		return "High"
	case ImportanceNormal:
		return "Normal"
	case ImportanceLow:
		return "Low"
	}
	return fmt.Sprintf("Importance(%d)", uint8(i))
}

// ParseImportance accepts High, Normal or Low in any case.
func ParseImportance(s string) (Importance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ImportanceHigh, nil
	case "normal":
		return ImportanceNormal, nil
	case "low":
		return ImportanceLow, nil
	}
	return 0, fmt.Errorf("unknown message importance %q", s)
}
