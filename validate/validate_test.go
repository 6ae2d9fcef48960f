package validate

import (
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
)

func TestValid(t *testing.T) {
	t.Run("accepts names of letters, digits, spaces and permitted punctuation", func(t *testing.T) {
		assert.True(t, Valid("Living Room TV"))
		assert.True(t, Valid("ac-bedroom"))
		assert.True(t, Valid("vol+"))
		assert.True(t, Valid("temp_24"))
	})

	t.Run("rejects the empty string", func(t *testing.T) {
		assert.False(t, Valid(""))
	})

	t.Run("rejects names longer than the maximum", func(t *testing.T) {
		assert.True(t, Valid(strings.Repeat("a", MaxNameLength)))
		assert.False(t, Valid(strings.Repeat("a", MaxNameLength+1)))
	})

	t.Run("rejects path breaking and other forbidden characters", func(t *testing.T) {
		assert.False(t, Valid("../etc/passwd"))
		assert.False(t, Valid("tv/power"))
		assert.False(t, Valid("power\x00off"))
		assert.False(t, Valid("name\nnewline"))
		assert.False(t, Valid("télé"))
	})
}
