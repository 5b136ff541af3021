package utils

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-08", time.Date(2024, 1, 8, 0, 0, 0, 0, jakarta)},
		{"2024-01-08T10:30:00", time.Date(2024, 1, 8, 10, 30, 0, 0, jakarta)},
		{"2024-01-08T10:30:00Z", time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)},
		{" 2024-01-08 ", time.Date(2024, 1, 8, 0, 0, 0, 0, jakarta)},
	}
	for _, c := range cases {
		got, err := ParseDate(c.in, jakarta)
		require.NoError(t, err, c.in)
		assert.True(t, c.want.Equal(got), "ParseDate(%q) = %v; want %v", c.in, got, c.want)
	}

	_, err := ParseDate("08/01/2024", jakarta)
	assert.Error(t, err)
	_, err = ParseDate("", jakarta)
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Pod", "Coil"}, SplitList("Pod, Coil,,"))
	assert.Nil(t, SplitList(""))
}

func TestValidateAndNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Admin", "admin", true},
		{"owner", "owner", true},
		{"STAFF ", "staff", true},
		{"merchant", "merchant", false},
	}

	for _, c := range cases {
		got, ok := ValidateAndNormalizeRole(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ValidateAndNormalizeRole(%q) = (%q, %v); want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
	assert.True(t, IsValidRole("admin"))
	assert.False(t, IsValidRole("not-a-role"))
}

func TestNullConversions(t *testing.T) {
	p := NullStringToStringPtr(sql.NullString{String: "hello", Valid: true})
	require.NotNil(t, p)
	assert.Equal(t, "hello", *p)
	assert.Nil(t, NullStringToStringPtr(sql.NullString{}))

	n := NullInt64ToIntPtr(sql.NullInt64{Int64: 7, Valid: true})
	require.NotNil(t, n)
	assert.Equal(t, 7, *n)
	assert.Nil(t, NullInt64ToIntPtr(sql.NullInt64{}))
}
