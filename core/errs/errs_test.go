package errs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(FontMappingMissing, "no font for U+%04X", 0x1F600)
	assert.Equal(t, FontMappingMissing, KindOf(err))
	assert.True(t, Is(err, FontMappingMissing))
	assert.False(t, Is(err, LayoutInfeasible))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, NoError, KindOf(nil))
	assert.Equal(t, InputInvariantViolation, KindOf(fmt.Errorf("boom")))
}

func TestWrapPreservesChain(t *testing.T) {
	base := fmt.Errorf("page 3 overlap strip query failed")
	wrapped := Wrap(base, OverlapAdjustFailure)
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, OverlapAdjustFailure, KindOf(wrapped))
}
