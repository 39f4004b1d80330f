package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument(t *testing.T) {
	assert.Equal(t, "AB-123", Document("  ab-123 "))
	assert.True(t, ValidDocument("AB-123"))
	assert.False(t, ValidDocument("AB 123"))
	assert.False(t, ValidDocument(""))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "sede-bolivar", Slug("Sede Bolívar"))
	assert.Equal(t, "sede-bolivar", Slug("sede-bolivar"))
	assert.Equal(t, "san-jose", Slug("  San   José! "))
}
