package util

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dummy struct{}

func TestIsNil(t *testing.T) {
	var p *dummy
	var m map[string]int
	var s []int
	var iface interface{} = p

	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(p))
	assert.True(t, IsNil(m))
	assert.True(t, IsNil(s))
	assert.True(t, IsNil(iface))
	assert.False(t, IsNil(&dummy{}))
	assert.False(t, IsNil(dummy{}))
	assert.False(t, IsNil([2]int{}))
	assert.False(t, IsNil(0))
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestFormatOrderReference(t *testing.T) {
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "EH-2026-000001", FormatOrderReference(ts, 1))
	assert.Equal(t, "EH-2026-123456", FormatOrderReference(ts, 123456))
	assert.Equal(t, "EH-2026-999999", FormatOrderReference(ts, 999_999))
	// 不會繞回 000001
	assert.Equal(t, "EH-2026-1000001", FormatOrderReference(ts, 1_000_001))
	assert.NotEqual(t, FormatOrderReference(ts, 1), FormatOrderReference(ts, 1_000_001))
	assert.Regexp(t, `^EH-\d{4}-\d{6}$`, FormatOrderReference(time.Now(), 42))
}
