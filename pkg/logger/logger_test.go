package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsUsableLogger(t *testing.T) {
	log := New("ignite-test")
	assert.NotNil(t, log)
	log.Infow("smoke test", "ok", true)
}

func TestNewNopDiscardsOutput(t *testing.T) {
	log := NewNop()
	assert.NotNil(t, log)
	log.Infow("should not panic or write anywhere", "ok", true)
}
