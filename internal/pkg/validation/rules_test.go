package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAcademicYear(t *testing.T) {
	assert.True(t, IsAcademicYear("2026/2027"))
	assert.False(t, IsAcademicYear("2026/2028"))
	assert.False(t, IsAcademicYear("2026-2027"))
	assert.False(t, IsAcademicYear("26/27"))
	assert.False(t, IsAcademicYear(""))
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("Ama").WithMaxLength(NameMaxLength).Validate())
	assert.False(t, NewStringValidation("").Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("ab").WithMinLength(3).Validate())
	// length counts characters, not bytes
	assert.True(t, NewStringValidation("Ɔkɔ").WithMaxLength(3).Validate())
	assert.False(t, NewStringValidation("kofi@school").WithPattern(CompiledPatterns.Email).Validate())
	assert.True(t, NewStringValidation("kofi@school.edu.gh").WithPattern(CompiledPatterns.Email).Validate())
}
