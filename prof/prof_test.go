package prof

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeRecordsWhenEnabled(t *testing.T) {
	Reset()
	Enabled = true
	defer func() { Enabled = false }()

	for i := 0; i < 3; i++ {
		done := Scope("phase")
		done()
	}

	mu.Lock()
	e := entries["phase"]
	mu.Unlock()
	assert.NotNil(t, e)
	assert.Equal(t, 3, e.calls)
}

func TestScopeNoOpWhenDisabled(t *testing.T) {
	Reset()
	Enabled = false

	Scope("phase")()

	mu.Lock()
	n := len(entries)
	mu.Unlock()
	assert.Equal(t, 0, n)
}
