package util_test

import (
	"testing"
	"time"

	"github.com/jmehdipour/phone-engine/internal/util"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := util.NewID()
	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Len(t, id, 26)
	assert.WithinDuration(t, time.Now(), ulid.Time(parsed.Time()), 5*time.Second)
}

func TestNewIDAtSortsByTime(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := util.NewIDAt(t0)
	b := util.NewIDAt(t0.Add(time.Millisecond))
	assert.Less(t, a, b)
}
