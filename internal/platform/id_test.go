package platform

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_ReturnsValidUUIDString(t *testing.T) {
	id := NewID()
	assert.NotEmpty(t, id)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id)
}

func TestNewID_ReturnsUniqueValues(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestNewName_Format(t *testing.T) {
	tests := []struct {
		prefix   string
		expected *regexp.Regexp
	}{
		{"job_", regexp.MustCompile(`^job_[a-z0-9]{10}$`)},
		{"bak_", regexp.MustCompile(`^bak_[a-z0-9]{10}$`)},
		{"ntf_", regexp.MustCompile(`^ntf_[a-z0-9]{10}$`)},
	}
	for _, tt := range tests {
		name := NewName(tt.prefix)
		assert.Regexp(t, tt.expected, name, "prefix=%s", tt.prefix)
	}
}
