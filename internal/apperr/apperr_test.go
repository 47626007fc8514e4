package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		permission bool
		notFound   bool
		storage    bool
	}{
		{"validation", Validation("bad %s", "input"), true, false, false, false},
		{"permission", Permission("buyer %d is not an admin", 3), true, true, false, false},
		{"not found", NotFound("horse", 5), false, false, true, false},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("buyer", 1)), false, false, true, false},
		{"storage", Storage("commit", errors.New("disk full")), false, false, false, true},
		{"plain", errors.New("boom"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.permission, IsPermission(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.storage, IsStorage(tt.err))
		})
	}
}

func TestStorageKeepsDomainErrors(t *testing.T) {
	nf := NotFound("transaction", 9)
	assert.Same(t, nf, Storage("delete", nf))
	assert.Nil(t, Storage("noop", nil))

	inner := Storage("insert", errors.New("constraint"))
	assert.Same(t, inner, Storage("outer", inner))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "horse 5 not found", NotFound("horse", 5).Error())
	assert.Equal(t, "storage: commit: disk full", Storage("commit", errors.New("disk full")).Error())
}
