package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusInProgress, StatusCompleted, StatusRejected} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("Done"))
	assert.False(t, ValidStatus("pending")) // case sensitive
	assert.False(t, ValidStatus(""))
}

func TestValidUrgency(t *testing.T) {
	for _, u := range []string{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency} {
		assert.True(t, ValidUrgency(u), u)
	}
	assert.False(t, ValidUrgency("Critical"))
	assert.False(t, ValidUrgency(""))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusRejected, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusRejected, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusRejected, StatusInProgress, false},
		{StatusRejected, StatusCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionSameStatusIsIdempotent(t *testing.T) {
	for _, s := range []string{StatusPending, StatusInProgress, StatusCompleted, StatusRejected} {
		assert.True(t, CanTransition(s, s), s)
	}
}
