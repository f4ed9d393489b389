// Package calendar derives the one-entry-per-day projection of a diary
// collection.
package calendar

import (
	"time"

	"github.com/oz-main-09-team3/emodiary/internal/client/models"
)

// Aggregate buckets diaries by their local calendar day in loc. When two
// diaries share a day, the occupant is replaced only by a strictly greater
// CreatedAt, so the latest entry of the day always wins. The function is
// pure and idempotent; it recomputes from scratch on every call.
func Aggregate(diaries []models.Diary, loc *time.Location) map[models.DateKey]models.Diary {
	out := make(map[models.DateKey]models.Diary, len(diaries))
	for _, d := range diaries {
		key := models.DateKeyOf(d.CreatedAt, loc)
		cur, ok := out[key]
		if !ok || d.CreatedAt.After(cur.CreatedAt) {
			out[key] = d
		}
	}
	return out
}
