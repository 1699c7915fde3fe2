package utils

import "time"

const secondsPerDay = 24 * 60 * 60

// All persisted timestamps are unix seconds in UTC.
func NowUnixSeconds() int64 { return time.Now().Unix() }

// ExtendFromUnix computes the end timestamp of a timed grant: if the
// current end is still in the future the duration stacks on top of it,
// otherwise the clock restarts from now. Shared by role memberships and
// guild subscriptions.
func ExtendFromUnix(now, currentEnd int64, days int) int64 {
	base := now
	if currentEnd > now {
		base = currentEnd
	}
	return base + int64(days)*secondsPerDay
}

// DaysUntil returns whole days between now and a future unix timestamp.
// Negative when the timestamp already passed.
func DaysUntil(now, ts int64) int {
	return int((ts - now) / secondsPerDay)
}

// FormatDate renders a unix timestamp as YYYY-MM-DD in UTC.
// Returns "" for non-positive input so callers can decide how to render.
func FormatDate(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

// FormatDateTime renders a unix timestamp for audit messages.
func FormatDateTime(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05 UTC")
}
