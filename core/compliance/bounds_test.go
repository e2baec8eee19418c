package compliance

import (
	"testing"
	"time"
)

func TestLocalCutoff(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		clock   string
		offset  string
		wantUTC string
		wantErr bool
	}{
		{
			name: "attendance cutoff EST",
			date: "2025-01-13", clock: AttendanceCutoffClock, offset: OffsetEasternStandard,
			wantUTC: "2025-01-13T15:00:00Z",
		},
		{
			name: "attendance cutoff EDT",
			date: "2025-06-02", clock: AttendanceCutoffClock, offset: OffsetEasternDaylight,
			wantUTC: "2025-06-02T14:00:00Z",
		},
		{
			name: "midday cutoff",
			date: "2025-01-13", clock: MiddayCutoffClock, offset: OffsetEasternStandard,
			wantUTC: "2025-01-13T19:00:00Z",
		},
		{
			name: "bad date",
			date: "01/13/2025", clock: AttendanceCutoffClock, offset: OffsetEasternStandard,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocalCutoff(tt.date, tt.clock, tt.offset)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LocalCutoff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			want, _ := time.Parse(time.RFC3339, tt.wantUTC)
			if !got.Equal(want) {
				t.Errorf("LocalCutoff() = %v, want %v", got.UTC(), want)
			}
		})
	}
}

func TestDayWindow(t *testing.T) {
	start, end, err := DayWindow("2025-01-13", OffsetEasternStandard)
	if err != nil {
		t.Fatalf("DayWindow() error = %v", err)
	}
	if !start.Before(end) {
		t.Errorf("start %v not before end %v", start, end)
	}
	if got := end.Sub(start); got != 23*time.Hour+59*time.Minute+59*time.Second {
		t.Errorf("window length = %v", got)
	}

	// instants compare correctly across representations: an on-time message
	// stamped in UTC lands inside the Eastern window
	onTime, _ := time.Parse(time.RFC3339, "2025-01-13T14:59:00Z") // 09:59 EST
	cutoff, _ := LocalCutoff("2025-01-13", AttendanceCutoffClock, OffsetEasternStandard)
	if !onTime.Before(cutoff) {
		t.Errorf("09:59 EST should be before the 10:00 cutoff")
	}
}
