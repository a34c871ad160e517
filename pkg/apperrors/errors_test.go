package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := New(Conflict, "friendship already exists")
	wrapped := fmt.Errorf("%w: a-b", base)

	assert.Equal(t, Conflict, KindOf(base))
	assert.Equal(t, Conflict, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "age must not be negative", MessageOf(Validationf("age must not be negative")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("UNIQUE constraint failed: users.username")))
	assert.Equal(t, "internal server error", MessageOf(Wrap(Internal, "query users", errors.New("conn reset"))))
}

func TestErrorString(t *testing.T) {
	e := Wrap(NotFound, "user not found", errors.New("record not found"))
	assert.Equal(t, "user not found: record not found", e.Error())
	assert.Equal(t, "not_found", e.Kind.String())
}
