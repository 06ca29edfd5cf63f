package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haleyb/libcatalog/internal/validator"
)

func TestPasswordSetAndMatches(t *testing.T) {
	var p password
	require.NoError(t, p.Set("correct horse battery"))
	require.NotNil(t, p.hash)

	match, err := p.Matches("correct horse battery")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = p.Matches("wrong password")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestUserDisplayName(t *testing.T) {
	user := User{FirstName: "Octavia", LastName: "Butler"}
	assert.Equal(t, "Butler, Octavia", user.DisplayName())
}

func TestIsAnonymous(t *testing.T) {
	assert.True(t, AnonymousUser.IsAnonymous())
	assert.False(t, (&User{ID: 1}).IsAnonymous())
}

func TestValidateUser(t *testing.T) {
	newUser := func() *User {
		user := &User{
			FirstName: "Octavia",
			LastName:  "Butler",
			Email:     "obutler@example.com",
		}
		require.NoError(t, user.Password.Set("kindred1979"))
		return user
	}

	t.Run("complete user passes", func(t *testing.T) {
		v := validator.New()
		ValidateUser(v, newUser())
		assert.True(t, v.Valid())
	})

	t.Run("bad email rejected", func(t *testing.T) {
		user := newUser()
		user.Email = "not-an-email"
		v := validator.New()
		ValidateUser(v, user)
		assert.Contains(t, v.Errors, "email")
	})

	t.Run("short password rejected", func(t *testing.T) {
		user := newUser()
		require.NoError(t, user.Password.Set("short"))
		v := validator.New()
		ValidateUser(v, user)
		assert.Contains(t, v.Errors, "password")
	})

	t.Run("identical names rejected", func(t *testing.T) {
		user := newUser()
		user.FirstName = "Butler"
		v := validator.New()
		ValidateUser(v, user)
		assert.Contains(t, v.Errors, "last_name")
	})
}
