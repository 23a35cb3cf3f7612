package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRevisionCode(t *testing.T) {
	assert.Equal(t, "RV-01", GenerateRevisionCode(""))
	assert.Equal(t, "RV-02", GenerateRevisionCode("RV-01"))
	assert.Equal(t, "RV-10", GenerateRevisionCode("RV-09"))
	assert.Equal(t, "RV-100", GenerateRevisionCode("RV-99"))
	// Malformed input restarts the sequence.
	assert.Equal(t, "RV-01", GenerateRevisionCode("v3"))
	assert.Equal(t, "RV-01", GenerateRevisionCode("RV-xx"))
}
