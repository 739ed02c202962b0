package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wandernear/nearby-places/internal/types"
)

// 2025-06-10 is a Tuesday, 2025-06-13 a Friday, 2025-06-14 a Saturday.
func at(day string, hour int) time.Time {
	ts, err := time.Parse(time.RFC3339, day+"T00:00:00Z")
	if err != nil {
		panic(err)
	}
	return ts.Add(time.Duration(hour) * time.Hour)
}

func TestClassify(t *testing.T) {
	cfg := DefaultClassifierConfig()

	tests := []struct {
		name string
		now  time.Time
		want types.ContextFlags
	}{
		{
			name: "tuesday midday heat",
			now:  at("2025-06-10", 14),
			want: types.ContextFlags{IsHot: true},
		},
		{
			name: "tuesday late night",
			now:  at("2025-06-10", 22),
			want: types.ContextFlags{IsNight: true},
		},
		{
			name: "night starts at 20",
			now:  at("2025-06-10", 20),
			want: types.ContextFlags{IsNight: true},
		},
		{
			name: "night ends before 6",
			now:  at("2025-06-10", 5),
			want: types.ContextFlags{IsNight: true},
		},
		{
			name: "6am is morning, not night",
			now:  at("2025-06-10", 6),
			want: types.ContextFlags{},
		},
		{
			name: "heat starts at 11",
			now:  at("2025-06-10", 11),
			want: types.ContextFlags{IsHot: true},
		},
		{
			name: "heat ends after 16",
			now:  at("2025-06-10", 16),
			want: types.ContextFlags{IsHot: true},
		},
		{
			name: "morning rush",
			now:  at("2025-06-10", 8),
			want: types.ContextFlags{IsRushHour: true},
		},
		{
			name: "evening rush",
			now:  at("2025-06-10", 18),
			want: types.ContextFlags{IsRushHour: true},
		},
		{
			name: "friday noon not yet pre-sabbath",
			now:  at("2025-06-13", 12),
			want: types.ContextFlags{IsHot: true},
		},
		{
			name: "friday afternoon pre-sabbath",
			now:  at("2025-06-13", 14),
			want: types.ContextFlags{IsHot: true, IsPreSabbath: true},
		},
		{
			name: "saturday daytime still sabbath window",
			now:  at("2025-06-14", 10),
			want: types.ContextFlags{IsPreSabbath: true},
		},
		{
			name: "saturday evening sabbath ended",
			now:  at("2025-06-14", 20),
			want: types.ContextFlags{IsNight: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Classify(tt.now))
		})
	}
}
