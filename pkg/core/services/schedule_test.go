package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAllocationWindow(t *testing.T) {
	cfg := testConfig()
	cfg.AllocationSchedule = "FREQ=YEARLY;BYMONTH=2,9;BYMONTHDAY=15"

	tests := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{
			name:  "later this year",
			after: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "wraps into next year",
			after: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
			want:  time.Date(2027, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "exact occurrence is excluded",
			after: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextAllocationWindow(cfg, tt.after)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestNextAllocationWindow_NotConfigured(t *testing.T) {
	_, err := NextAllocationWindow(testConfig(), time.Now())

	assert.ErrorIs(t, err, ErrNoSchedule)
}

func TestNextAllocationWindow_Invalid(t *testing.T) {
	cfg := testConfig()
	cfg.AllocationSchedule = "NOT_AN_RRULE"

	_, err := NextAllocationWindow(cfg, time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}
