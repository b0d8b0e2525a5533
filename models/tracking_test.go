package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want TrackingStatus
	}{
		{"Phlebotomist Assigned", StatusPhlebotomistAssigned},
		{"[Phlebotomist Assigned]", StatusPhlebotomistAssigned},
		{"  SAMPLES   COLLECTED ", StatusSamplesCollected},
		{"Sample Collected", StatusSamplesCollected},
		{"sample_collected", StatusSamplesCollected},
		{"inprogress", StatusInProgress},
		{"InProgress", StatusInProgress},
		{"OTP Verified", StatusOtpVerified},
		{"(Created)", StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeStatus(tc.raw))
		})
	}
}

func TestTrackingStatus_AtLeast(t *testing.T) {
	assert.True(t, StatusInProgress.AtLeast(StatusPhlebotomistAssigned))
	assert.True(t, StatusSamplesCollected.AtLeast(StatusSamplesCollected))
	assert.False(t, StatusCreated.AtLeast(StatusInProgress))
	assert.False(t, TrackingStatus("weird_state").AtLeast(StatusCreated), "unknown states never satisfy a target")
}
