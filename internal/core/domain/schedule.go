package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// HomeZone is the fixed reference zone for every calendar-day comparison and
// due-date anchor. The bot deliberately uses a fixed UTC+9 offset instead of
// an IANA zone: no DST handling is wanted.
var HomeZone = time.FixedZone("JST", 9*60*60)

// MaxRemindBeforeMinutes is one week, the upper bound for the pre-reminder
// lead time.
const MaxRemindBeforeMinutes = 7 * 24 * 60

var timeOfDayPattern = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})$`)

// NormalizeTimeOfDay validates "H:MM" / "HH:MM" and returns the zero-padded
// "HH:MM" form.
func NormalizeTimeOfDay(input string) (string, error) {
	m := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return "", fmt.Errorf("%w: time of day %q", ErrInvalidFormat, input)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return "", fmt.Errorf("%w: time of day %q", ErrInvalidFormat, input)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// splitTimeOfDay assumes a normalized "HH:MM" value.
func splitTimeOfDay(timeOfDay string) (hour, minute int) {
	parts := strings.SplitN(timeOfDay, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	return hour, minute
}

// CalculateStartAt returns the occurrence of timeOfDay on the home-zone
// calendar date of createdAt. This is the task's first due anchor.
func CalculateStartAt(createdAt time.Time, timeOfDay string) time.Time {
	hour, minute := splitTimeOfDay(timeOfDay)
	d := createdAt.In(HomeZone)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, HomeZone)
}

// CalculateNextDueAt computes the currently pending due date.
//
// After a completion the next due date is the timeOfDay anchor exactly
// IntervalDays after the home-zone calendar date of LastDoneAt. A task that
// was never completed starts from StartAt and advances in IntervalDays steps
// until the anchor is not in the past relative to now, so a task that missed
// several cycles jumps to the next still-pending occurrence instead of
// re-firing every missed one.
func CalculateNextDueAt(task ReminderTask, now time.Time) time.Time {
	hour, minute := splitTimeOfDay(task.TimeOfDay)
	interval := task.IntervalDays
	if interval < 1 {
		interval = 1
	}

	if task.LastDoneAt != nil {
		d := task.LastDoneAt.In(HomeZone)
		return time.Date(d.Year(), d.Month(), d.Day()+interval, hour, minute, 0, 0, HomeZone)
	}

	s := task.StartAt.In(HomeZone)
	due := time.Date(s.Year(), s.Month(), s.Day(), hour, minute, 0, 0, HomeZone)
	for due.Before(now) {
		due = due.AddDate(0, 0, interval)
	}
	return due
}

// ParseRemindBefore parses a pre-reminder lead time given as "HH:MM" or
// "D:HH:MM" and returns total minutes. Hours must stay below 24 in the
// two-token form; minutes below 60 in both. Totals above one week are
// rejected as out of range.
func ParseRemindBefore(input string) (int, error) {
	parts := strings.Split(strings.TrimSpace(input), ":")

	var total int
	switch len(parts) {
	case 2:
		hours, minutes, err := parseTimeTokens(parts[0], parts[1])
		if err != nil {
			return 0, fmt.Errorf("%w: remind-before %q", ErrInvalidFormat, input)
		}
		if hours > 23 {
			return 0, fmt.Errorf("%w: remind-before %q", ErrInvalidFormat, input)
		}
		total = hours*60 + minutes
	case 3:
		days, err := parseUint(parts[0])
		if err != nil {
			return 0, fmt.Errorf("%w: remind-before %q", ErrInvalidFormat, input)
		}
		hours, minutes, err := parseTimeTokens(parts[1], parts[2])
		if err != nil {
			return 0, fmt.Errorf("%w: remind-before %q", ErrInvalidFormat, input)
		}
		total = days*24*60 + hours*60 + minutes
	default:
		return 0, fmt.Errorf("%w: remind-before %q", ErrInvalidFormat, input)
	}

	if total > MaxRemindBeforeMinutes {
		return 0, fmt.Errorf("%w: remind-before %q exceeds one week", ErrOutOfRange, input)
	}
	return total, nil
}

func parseTimeTokens(hourToken, minuteToken string) (hours, minutes int, err error) {
	hours, err = parseUint(hourToken)
	if err != nil {
		return 0, 0, err
	}
	minutes, err = parseUint(minuteToken)
	if err != nil {
		return 0, 0, err
	}
	if minutes > 59 {
		return 0, 0, fmt.Errorf("minutes out of range")
	}
	return hours, minutes, nil
}

func parseUint(token string) (int, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(token), 10, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// FormatRemainingDuration renders minutes as day/hour/minute components in
// the bot's home locale, dropping zero-valued components. Zero total renders
// as "0分".
func FormatRemainingDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	days := minutes / (24 * 60)
	hours := (minutes / 60) % 24
	mins := minutes % 60

	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%d日", days)
	}
	if hours > 0 {
		fmt.Fprintf(&b, "%d時間", hours)
	}
	if mins > 0 || b.Len() == 0 {
		fmt.Fprintf(&b, "%d分", mins)
	}
	return b.String()
}

// SameHomeDay reports whether two instants fall on the same home-zone
// calendar date.
func SameHomeDay(a, b time.Time) bool {
	a, b = a.In(HomeZone), b.In(HomeZone)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
