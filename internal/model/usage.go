package model

import "time"

// DayLayout is the key format of Usage.Days.
const DayLayout = "2006-01-02"

// Usage records on which days a user was active.
type Usage struct {
	UserID    string          `json:"user_id" bson:"user_id"`
	Days      map[string]bool `json:"days" bson:"days"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// DayKey formats t as a Usage day in loc. A nil loc means UTC.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// UsedOn reports whether the day is marked as used.
func (u *Usage) UsedOn(day string) bool {
	if u == nil || u.Days == nil {
		return false
	}
	return u.Days[day]
}

// ActiveDays counts days marked true.
func (u *Usage) ActiveDays() int {
	if u == nil {
		return 0
	}
	n := 0
	for _, used := range u.Days {
		if used {
			n++
		}
	}
	return n
}
