package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonBlank(t *testing.T) {
	assert.Nil(t, NonBlank(""))
	assert.Nil(t, NonBlank("  \t"))
	assert.Equal(t, "duplicate", *NonBlank("  duplicate "))
}

func TestOrZero(t *testing.T) {
	assert.Equal(t, 0, OrZero[int](nil))
	assert.Equal(t, 7, OrZero(Ptr(7)))
}
