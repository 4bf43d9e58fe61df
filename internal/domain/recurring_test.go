package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

func mustDate(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func dateStrings(dates []types.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

func TestRecurringAppointment_Occurrences(t *testing.T) {
	tests := []struct {
		name  string
		r     RecurringAppointment
		until string
		want  []string
	}{
		{
			name:  "weekly from start",
			r:     RecurringAppointment{Frequency: FrequencyWeekly, StartDate: mustDate(t, "2026-03-02")},
			until: "2026-03-20",
			want:  []string{"2026-03-02", "2026-03-09", "2026-03-16"},
		},
		{
			name: "biweekly after last generated",
			r: RecurringAppointment{
				Frequency:         FrequencyBiweekly,
				StartDate:         mustDate(t, "2026-03-02"),
				LastGeneratedDate: func() *types.Date { d := mustDate(t, "2026-03-16"); return &d }(),
			},
			until: "2026-04-30",
			want:  []string{"2026-03-30", "2026-04-13", "2026-04-27"},
		},
		{
			name:  "monthly clamps to month end",
			r:     RecurringAppointment{Frequency: FrequencyMonthly, StartDate: mustDate(t, "2026-01-31")},
			until: "2026-05-01",
			want:  []string{"2026-01-31", "2026-02-28", "2026-03-31", "2026-04-30"},
		},
		{
			name: "end date caps horizon",
			r: RecurringAppointment{
				Frequency: FrequencyWeekly,
				StartDate: mustDate(t, "2026-03-02"),
				EndDate:   func() *types.Date { d := mustDate(t, "2026-03-10"); return &d }(),
			},
			until: "2026-06-01",
			want:  []string{"2026-03-02", "2026-03-09"},
		},
		{
			name: "nothing new",
			r: RecurringAppointment{
				Frequency:         FrequencyWeekly,
				StartDate:         mustDate(t, "2026-03-02"),
				LastGeneratedDate: func() *types.Date { d := mustDate(t, "2026-03-16"); return &d }(),
			},
			until: "2026-03-20",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dateStrings(tt.r.Occurrences(mustDate(t, tt.until)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Occurrences() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddMonthsClamped(t *testing.T) {
	got := AddMonthsClamped(mustDate(t, "2024-01-31"), 1)
	if got.String() != "2024-02-29" {
		t.Errorf("AddMonthsClamped() = %s, want 2024-02-29", got)
	}
}
