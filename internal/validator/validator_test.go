package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMinDate(t *testing.T) {
	today := date(2026, time.March, 10)
	rule := MinDate(today, "")

	t.Run("past date fails with default message", func(t *testing.T) {
		ok, msg := rule(today.AddDate(0, 0, -1))
		assert.False(t, ok)
		assert.Equal(t, MsgDateInPast, msg)
	})

	t.Run("today passes", func(t *testing.T) {
		ok, _ := rule(today)
		assert.True(t, ok)
	})

	t.Run("future date passes", func(t *testing.T) {
		ok, _ := rule(today.AddDate(0, 0, 14))
		assert.True(t, ok)
	})

	t.Run("custom message", func(t *testing.T) {
		custom := MinDate(today, "no time travel")
		ok, msg := custom(today.AddDate(0, 0, -30))
		assert.False(t, ok)
		assert.Equal(t, "no time travel", msg)
	})
}

func TestMaxDate(t *testing.T) {
	today := date(2026, time.March, 10)
	fourWeeks := 4 * 7 * 24 * time.Hour
	rule := MaxDate(today, fourWeeks, "")

	t.Run("beyond horizon fails with default message", func(t *testing.T) {
		ok, msg := rule(today.AddDate(0, 0, 29))
		assert.False(t, ok)
		assert.Equal(t, MsgDateTooFarAhead, msg)
	})

	t.Run("exact boundary passes", func(t *testing.T) {
		ok, _ := rule(today.AddDate(0, 0, 28))
		assert.True(t, ok)
	})

	t.Run("within horizon passes", func(t *testing.T) {
		ok, _ := rule(today.AddDate(0, 0, 21))
		assert.True(t, ok)
	})

	t.Run("today passes", func(t *testing.T) {
		ok, _ := rule(today)
		assert.True(t, ok)
	})
}

func TestCheckDateCollectsEveryFailure(t *testing.T) {
	v := New()
	value := date(2026, time.March, 10)

	// Two rules tuned so both fail for the same value.
	v.CheckDate("due_back", value,
		MinDate(value.AddDate(0, 0, 1), "too early"),
		MaxDate(value.AddDate(0, 0, -7), 24*time.Hour, "too late"),
	)

	require.False(t, v.Valid())
	assert.Equal(t, []string{"too early", "too late"}, v.Errors["due_back"])
}

func TestDateOrder(t *testing.T) {
	birth := date(1920, time.January, 2)

	t.Run("death before birth fails", func(t *testing.T) {
		death := birth.AddDate(0, 0, -1)
		assert.False(t, DateOrder(&birth, &death))
	})

	t.Run("death equal to birth passes", func(t *testing.T) {
		death := birth
		assert.True(t, DateOrder(&birth, &death))
	})

	t.Run("death after birth passes", func(t *testing.T) {
		death := birth.AddDate(70, 0, 0)
		assert.True(t, DateOrder(&birth, &death))
	})

	t.Run("missing values pass", func(t *testing.T) {
		assert.True(t, DateOrder(nil, &birth))
		assert.True(t, DateOrder(&birth, nil))
		assert.True(t, DateOrder(nil, nil))
	})
}

func TestDistinctNames(t *testing.T) {
	assert.False(t, DistinctNames("Morrison", "Morrison"))
	assert.True(t, DistinctNames("Toni", "Morrison"))
	// Exact, case-sensitive comparison only.
	assert.True(t, DistinctNames("morrison", "Morrison"))
	// Requiredness is someone else's problem.
	assert.True(t, DistinctNames("", ""))
	assert.True(t, DistinctNames("Toni", ""))
}

func TestValidatorAccumulates(t *testing.T) {
	v := New()
	require.True(t, v.Valid())

	v.AddError("name", "first problem")
	v.AddError("name", "second problem")
	v.Check(false, "email", "must be provided")
	v.Check(true, "email", "never recorded")

	assert.False(t, v.Valid())
	assert.Equal(t, []string{"first problem", "second problem"}, v.Errors["name"])
	assert.Equal(t, []string{"must be provided"}, v.Errors["email"])
}

func TestIn(t *testing.T) {
	assert.True(t, In("Available", "Maintenance", "On loan", "Available", "Reserved"))
	assert.False(t, In("Lost", "Maintenance", "On loan", "Available", "Reserved"))
}

func TestUnique(t *testing.T) {
	assert.True(t, Unique([]string{"Fantasy", "Horror"}))
	assert.False(t, Unique([]string{"Fantasy", "Fantasy"}))
}

func TestMatchesEmail(t *testing.T) {
	assert.True(t, Matches("patron@example.com", EmailRX))
	assert.False(t, Matches("not-an-email", EmailRX))
}
