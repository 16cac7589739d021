// Human-readable "3 days ago" / "in 2 years" descriptions
package duration

import (
	"math"
	"strconv"
	"time"
)

// Relative describes ts as seen from now
func Relative(ts time.Time, now time.Time) string {
	return Humanize(now.Sub(ts))
}

// Humanize treats positive durations as being in the past
func Humanize(dur time.Duration) string {
	ms := dur.Milliseconds()

	inPast := ms >= 0
	if !inPast {
		ms = -ms
	}

	descr := describe(float64(ms))

	if inPast {
		return descr + " ago"
	}

	return "in " + descr
}

type unit struct {
	ms       float64
	singular string
	plural   string
}

// largest first
var units = []unit{
	{365 * 86400 * 1000, "year", "years"},
	{86400 * 1000, "day", "days"},
	{3600 * 1000, "hour", "hours"},
	{60 * 1000, "minute", "minutes"},
	{1000, "second", "seconds"},
}

func describe(milliseconds float64) string {
	for _, u := range units {
		if num := int(math.Round(milliseconds / u.ms)); num > 0 {
			return plural(num, u.singular, u.plural)
		}
	}

	return plural(int(milliseconds), "millisecond", "milliseconds")
}

func plural(num int, singular string, plural string) string {
	if num == 1 {
		return strconv.Itoa(num) + " " + singular
	}

	return strconv.Itoa(num) + " " + plural
}
