package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfWrapped(t *testing.T) {
	base := NewNotFound("retention rule", nil)
	wrapped := fmt.Errorf("failed to execute rule: %w", base)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, "retention rule not found", base.Error())
}

func TestStorageKeepsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewStorage("delete attendance", cause)

	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage failure: delete attendance: connection reset", err.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorCode(0), CodeOf(stderrors.New("boom")))
	assert.False(t, IsUnsupportedRuleType(nil))
}

func TestUnsupportedRuleTypeMessage(t *testing.T) {
	err := NewUnsupportedRuleType("EXPIRED_SESSIONS")
	assert.True(t, IsUnsupportedRuleType(err))
	assert.Contains(t, err.Error(), `"EXPIRED_SESSIONS"`)
}
