package domain_test

import (
	"testing"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestNewBusinessWindow(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		end       int
		wantStart int
		wantEnd   int
	}{
		{"same day", 8, 24, 8, 24},
		{"cross midnight", 8, 4, 8, 28},
		{"negative start clamps", -5, 30, 0, 30},
		{"start above 23 clamps", 30, 40, 23, 40},
		{"equal hours roll to next day", 10, 10, 10, 34},
		{"end beyond 48 clamps", 20, 60, 20, 48},
		{"negative end rolls then clamps low", 0, -30, 0, 1},
		{"night window", 20, 4, 20, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := domain.NewBusinessWindow(tt.start, tt.end)
			assert.Equal(t, tt.wantStart, w.StartHour)
			assert.Equal(t, tt.wantEnd, w.EndHour)
			assert.Equal(t, tt.wantStart*60, w.StartMinute)
			assert.Equal(t, tt.wantEnd*60, w.EndMinute)
			assert.Greater(t, w.EndHour, w.StartHour)
		})
	}
}

func TestWindowFromHours(t *testing.T) {
	assert.Equal(t, domain.DefaultWindow(), domain.WindowFromHours(nil, nil))

	w := domain.WindowFromHours(intPtr(6), nil)
	assert.Equal(t, 6, w.StartHour)
	assert.Equal(t, 24, w.EndHour)

	w = domain.WindowFromHours(nil, intPtr(2))
	assert.Equal(t, 8, w.StartHour)
	assert.Equal(t, 26, w.EndHour)
}

func TestBusinessWindow_Labels(t *testing.T) {
	assert.Equal(t, "08:00-24:00", domain.DefaultWindow().String())
	assert.False(t, domain.DefaultWindow().CrossesMidnight())

	night := domain.NewBusinessWindow(20, 4)
	assert.Equal(t, "20:00-04:00 (next day)", night.String())
	assert.True(t, night.CrossesMidnight())
	assert.True(t, night.Contains(1200))
	assert.False(t, night.Contains(1680))
}

func TestCorporation_Window(t *testing.T) {
	corp := domain.Corporation{BusinessDayStartHour: intPtr(20), BusinessDayEndHour: intPtr(4)}
	assert.Equal(t, domain.NewBusinessWindow(20, 28), corp.Window())
}
