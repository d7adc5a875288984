package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Nice!", Sanitize("  Nice!  "))
	assert.Equal(t, "", Sanitize(`<script>alert(1)</script>`))
	assert.Equal(t, "bold", Sanitize("<b>bold</b>"))
	assert.Equal(t, "", Sanitize("   "))
}

func TestSanitizeKeepsPlainTextAsTyped(t *testing.T) {
	for _, in := range []string{
		"Tom & Jerry's <3",
		`quote "this" & that`,
		"a < b > c",
		"50% off @ the café",
	} {
		assert.Equal(t, in, Sanitize(in), in)
	}
	assert.Equal(t, "hi there", Sanitize(`<a href="javascript:alert(1)">hi</a> there`))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
