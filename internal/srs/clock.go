package srs

import "time"

// All day-boundary math is anchored to JST (UTC+9) regardless of the
// server's local time zone, so the notification cron and the interactive
// review flow see the same calendar day. Every user shares this one
// scheduling time zone.

// jstOffsetMS is the JST offset from UTC in milliseconds.
const jstOffsetMS int64 = 9 * 60 * 60 * 1000

// JST is the reference time zone for all calendar computations.
var JST = time.FixedZone("JST", 9*60*60)

// StartOfDay returns JST midnight of the calendar day containing now, in
// Unix milliseconds: the instant is shifted into the JST frame, floored
// to a day boundary, and shifted back.
func StartOfDay(now time.Time) int64 {
	jstNow := now.UnixMilli() + jstOffsetMS
	jstMidnight := (jstNow / MSPerDay) * MSPerDay
	return jstMidnight - jstOffsetMS
}

// DateKey returns the JST calendar date of the given Unix-millisecond
// instant in YYYY-MM-DD form. Used to group reviews by day for streak
// and history computations.
func DateKey(ms int64) string {
	return time.UnixMilli(ms).In(JST).Format("2006-01-02")
}
