package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesPath(t *testing.T) {
	err := notFoundError("/a/b")
	assert.Equal(t, "resource not found: /a/b", err.Error())

	bare := unsupportedResourceError("cannot add a nil resource")
	assert.Equal(t, "cannot add a nil resource", bare.Error())
}

func TestCodeOfUnwrapsChains(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", validationError("bad path", "x"))

	code, ok := CodeOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrValidation, code)

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
	_, ok = CodeOf(nil)
	assert.False(t, ok)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(notFoundError("/x")))
	assert.False(t, IsNotFound(validationError("bad", "/x")))
	assert.False(t, IsNotFound(nil))
}
