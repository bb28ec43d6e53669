package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNextSequence(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty", nil, "INV-0001"},
		{"highest wins", []string{"INV-0002", "INV-0010", "INV-0003"}, "INV-0011"},
		{"ignores foreign prefixes", []string{"ORD-0099", "INV-0001"}, "INV-0002"},
		{"ignores non numeric", []string{"INV-ABCD", "INV-0004"}, "INV-0005"},
		{"grows past width", []string{"INV-9999"}, "INV-10000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextSequence("INV-", 4, tc.existing))
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "office-supplies", Slugify("  Office Supplies "))
	assert.Equal(t, "a-b-c", Slugify("A -- b  C!"))
	assert.Equal(t, "cafe-creme", Slugify("Café Crème"))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "cafe-2", Slugify("Cafe #2"))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	u, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
}

func TestPassword(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	h, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword("s3cret!", h))
	assert.False(t, CheckPassword("wrong", h))
	assert.False(t, CheckPassword("s3cret!", ""))
}
