package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKey(t *testing.T) {
	at := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-10", DayKey(at, nil))

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	assert.Equal(t, "2024-03-11", DayKey(at, tokyo))
}

func TestUsage(t *testing.T) {
	var nilUsage *Usage
	assert.False(t, nilUsage.UsedOn("2024-01-01"))
	assert.Equal(t, 0, nilUsage.ActiveDays())

	u := &Usage{Days: map[string]bool{"2024-01-01": true, "2024-01-02": false, "2024-01-03": true}}
	assert.True(t, u.UsedOn("2024-01-01"))
	assert.False(t, u.UsedOn("2024-01-02"))
	assert.False(t, u.UsedOn("2024-01-04"))
	assert.Equal(t, 2, u.ActiveDays())
}

func TestUserMeta(t *testing.T) {
	m := &UserMeta{Unsubscribed: []string{"digest"}, SubscriptionStatus: SubscriptionTrialing}

	assert.True(t, m.IsUnsubscribed("digest"))
	assert.False(t, m.IsUnsubscribed("reminders"))
	assert.True(t, m.HasActiveSubscription())

	m.SubscriptionStatus = SubscriptionCanceled
	assert.False(t, m.HasActiveSubscription())

	var nilMeta *UserMeta
	assert.False(t, nilMeta.IsUnsubscribed("digest"))
	assert.False(t, nilMeta.HasActiveSubscription())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleAssistant))
	assert.True(t, ValidRole(RoleSystem))
	assert.False(t, ValidRole("tool"))
}

func TestSessionTypeDuration(t *testing.T) {
	st := &SessionType{DurationMinutes: 45}
	assert.Equal(t, 45*time.Minute, st.Duration())
}
