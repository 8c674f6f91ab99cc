package entities

import "strings"

// UrgencyLevel is both a camp's required response window and a provider's
// response-time class. The zero value is UrgencyUnknown.
type UrgencyLevel int

const (
	UrgencyUnknown UrgencyLevel = iota
	Immediate
	SixHours
	TwelveHours
	TwentyFourHours
)

// UnknownRank is the rank of any label that does not map to a known window
const UnknownRank = 99

// Rank maps an urgency level to its priority rank. Lower is more urgent.
func Rank(level UrgencyLevel) int {
	switch level {
	case Immediate:
		return 1
	case SixHours:
		return 2
	case TwelveHours:
		return 3
	case TwentyFourHours:
		return 4
	default:
		return UnknownRank
	}
}

// Rank returns the priority rank of the level
func (u UrgencyLevel) Rank() int {
	return Rank(u)
}

// String method for UrgencyLevel enum
func (u UrgencyLevel) String() string {
	switch u {
	case Immediate:
		return "IMMEDIATE"
	case SixHours:
		return "SIX_HOURS"
	case TwelveHours:
		return "TWELVE_HOURS"
	case TwentyFourHours:
		return "TWENTY_FOUR_HOURS"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the level using its enum name
func (u UrgencyLevel) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText never fails: unrecognized labels become UrgencyUnknown
func (u *UrgencyLevel) UnmarshalText(text []byte) error {
	*u = ParseUrgencyLevel(string(text))
	return nil
}

// ParseUrgencyLevel accepts enum names and the dashboard's display aliases,
// case-insensitively. Anything else, including the empty string, is UrgencyUnknown.
func ParseUrgencyLevel(s string) UrgencyLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IMMEDIATE":
		return Immediate
	case "SIX_HOURS", "6 HOURS":
		return SixHours
	case "TWELVE_HOURS", "12 HOURS":
		return TwelveHours
	case "TWENTY_FOUR_HOURS", "24 HOURS":
		return TwentyFourHours
	default:
		return UrgencyUnknown
	}
}

// FormatETA turns a raw response-time label into the short ETA shown to operators
func FormatETA(responseTime string) string {
	if strings.TrimSpace(responseTime) == "" {
		return "TBD"
	}
	switch strings.ToUpper(strings.TrimSpace(responseTime)) {
	case "IMMEDIATE":
		return "IMMEDIATE"
	case "SIX_HOURS":
		return "6 HOURS"
	case "TWELVE_HOURS":
		return "12 HOURS"
	case "TWENTY_FOUR_HOURS":
		return "24 HOURS"
	case "QUICK":
		return "1-2 HRS"
	case "STAGED":
		return "4-6 HRS"
	case "EXTENDED":
		return "12+ HRS"
	default:
		return responseTime
	}
}
