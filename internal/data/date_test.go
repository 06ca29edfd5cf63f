package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateDropsClock(t *testing.T) {
	d := NewDate(time.Date(2026, time.March, 10, 23, 59, 58, 0, time.FixedZone("X", 3600)))
	assert.Equal(t, "2026-03-10", d.String())
	assert.Equal(t, time.UTC, d.Location())
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-03-31", d.AddWeeks(3).String())
	assert.Equal(t, "2026-03-09", d.AddDays(-1).String())
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-10"`), &d))
	assert.Equal(t, "2026-03-10", d.String())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-10"`, string(out))

	// Full timestamps are rejected: dates carry no time-of-day.
	assert.Error(t, json.Unmarshal([]byte(`"2026-03-10T15:04:05Z"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"10/03/2026"`), &d))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-03-10", d.String())

	assert.Error(t, d.Scan("2026-03-10"))
}
