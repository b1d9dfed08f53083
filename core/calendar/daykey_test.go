package calendar

import (
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{
			name: "midnight",
			t:    time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC),
			want: "2025-11-12",
		},
		{
			name: "one second to midnight",
			t:    time.Date(2025, 11, 12, 23, 59, 59, 0, time.UTC),
			want: "2025-11-12",
		},
		{
			name: "non-UTC instant normalizes to its UTC date",
			t:    time.Date(2025, 11, 12, 22, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			want: "2025-11-13",
		},
		{
			name: "noon",
			t:    time.Date(2025, 1, 2, 12, 30, 0, 0, time.UTC),
			want: "2025-01-02",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKey(tt.t); got != tt.want {
				t.Errorf("DayKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBucketID(t *testing.T) {
	if got := BucketID("cal1", "2025-11-12"); got != "cal1_2025-11-12" {
		t.Errorf("BucketID() = %v", got)
	}
}

func TestParseDayKey(t *testing.T) {
	day, err := ParseDayKey("2025-11-12")
	if err != nil {
		t.Fatalf("ParseDayKey() failed: %v", err)
	}
	want := time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Errorf("ParseDayKey() = %v, want %v", day, want)
	}
	if got := DayKey(day); got != "2025-11-12" {
		t.Errorf("DayKey(ParseDayKey()) = %v, not stable", got)
	}

	if _, err := ParseDayKey("12/11/2025"); err == nil {
		t.Error("ParseDayKey() expected error for non-canonical date")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		val     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "RFC3339",
			val:  "2025-11-12T15:04:05Z",
			want: time.Date(2025, 11, 12, 15, 4, 5, 0, time.UTC),
		},
		{
			name: "RFC3339 with offset normalizes to UTC",
			val:  "2025-11-12T22:00:00-05:00",
			want: time.Date(2025, 11, 13, 3, 0, 0, 0, time.UTC),
		},
		{
			name: "bare date",
			val:  "2025-11-12",
			want: time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			val:     "next tuesday",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.val)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
