package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", d.String())

	_, err = ParseDate("06/01/2024")
	assert.Error(t, err)

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
}

func TestDateAddDaysCrossesMonthAndLeapDay(t *testing.T) {
	assert.Equal(t, "2024-07-01", MustParseDate("2024-06-21").AddDays(10).String())
	assert.Equal(t, "2024-03-01", MustParseDate("2024-02-28").AddDays(2).String())
	assert.Equal(t, 10, MustParseDate("2024-06-01").DaysUntil(MustParseDate("2024-06-11")))
}

func TestDateOfIgnoresClockTime(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	late := time.Date(2024, 6, 1, 23, 59, 0, 0, loc)
	assert.True(t, DateOf(late).Equal(NewDate(2024, 6, 1)))
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Start Date  `json:"start_date"`
		End   *Date `json:"end_date,omitempty"`
	}

	raw, err := json.Marshal(payload{Start: NewDate(2024, 6, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start_date":"2024-06-01"}`, string(raw))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":"2024-06-12","end_date":null}`), &p))
	assert.Equal(t, "2024-06-12", p.Start.String())

	assert.Error(t, json.Unmarshal([]byte(`{"start_date":"12-06-2024"}`), &p))
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-11", d.String())

	require.NoError(t, d.Scan([]byte("2024-06-12")))
	assert.Equal(t, "2024-06-12", d.String())

	require.NoError(t, d.Scan("2024-06-13T00:00:00Z"))
	assert.Equal(t, "2024-06-13", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-13", v)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err = d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}

func TestWindowOverlapIsInclusive(t *testing.T) {
	base := Window{Start: MustParseDate("2024-06-01"), End: MustParseDate("2024-06-11")}

	tests := []struct {
		name  string
		other Window
		want  bool
	}{
		{"inside", Window{MustParseDate("2024-06-03"), MustParseDate("2024-06-04")}, true},
		{"straddles start", Window{MustParseDate("2024-05-25"), MustParseDate("2024-06-01")}, true},
		{"shares end day", Window{MustParseDate("2024-06-11"), MustParseDate("2024-06-20")}, true},
		{"starts day after end", Window{MustParseDate("2024-06-12"), MustParseDate("2024-06-20")}, false},
		{"ends day before start", Window{MustParseDate("2024-05-20"), MustParseDate("2024-05-31")}, false},
		{"covers", Window{MustParseDate("2024-05-01"), MustParseDate("2024-07-01")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: MustParseDate("2024-06-01"), End: MustParseDate("2024-06-11")}
	assert.True(t, w.Contains(MustParseDate("2024-06-01")))
	assert.True(t, w.Contains(MustParseDate("2024-06-11")))
	assert.False(t, w.Contains(MustParseDate("2024-06-12")))
	assert.False(t, w.Contains(MustParseDate("2024-05-31")))
}
