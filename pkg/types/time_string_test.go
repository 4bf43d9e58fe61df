package types

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "hh:mm", input: "09:30", want: "09:30"},
		{name: "postgres time", input: "18:00:00", want: "18:00"},
		{name: "end of day", input: "24:00", want: "24:00"},
		{name: "single digit hour", input: "9:30", wantErr: true},
		{name: "bad minutes", input: "10:75", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("10:45").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), got)

	got, err = TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	_, err = TimeString("23:30").AddMinutes(31)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = TimeString("bad").AddMinutes(5)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("08:15:00")))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan("14:00"))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 7, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_On(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 16, 20, 0, 0, time.UTC), TimeString("16:20").On(date))
}

func TestTimeString_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("minutes round trip", prop.ForAll(
		func(m int) bool {
			ts, err := FromMinutes(m)
			if err != nil {
				return false
			}
			return ts.Minutes() == m && ts.Validate() == nil
		},
		gen.IntRange(0, minutesPerDay),
	))

	properties.Property("adding minutes preserves order", prop.ForAll(
		func(start, delta int) bool {
			ts, _ := FromMinutes(start)
			shifted, err := ts.AddMinutes(delta)
			if start+delta > minutesPerDay {
				return err != nil
			}
			return err == nil && !shifted.IsBefore(ts) && shifted.Minutes()-ts.Minutes() == delta
		},
		gen.IntRange(0, minutesPerDay),
		gen.IntRange(0, 600),
	))

	properties.TestingRun(t)
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", d.AddDays(1).String())
	assert.Equal(t, time.Saturday, d.Weekday())

	var scanned Date
	require.NoError(t, scanned.Scan("2026-02-28 00:00:00+00:00"))
	assert.True(t, scanned.Equal(d))

	require.NoError(t, scanned.Scan(time.Date(2026, 2, 28, 23, 59, 0, 0, time.FixedZone("X", 3*3600))))
	assert.True(t, scanned.Equal(d))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", v)

	_, err = ParseDate("28.02.2026")
	assert.ErrorIs(t, err, ErrInvalidDate)

	raw, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2026-02-28"`, string(raw))
}
