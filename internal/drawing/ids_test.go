package drawing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDSourceIsStrictlyIncreasing(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	ids := &IDSource{now: func() time.Time { return frozen }}

	assert.Equal(t, "1700000000000", ids.Next())
	assert.Equal(t, "1700000000001", ids.Next())
	assert.Equal(t, "1700000000002", ids.Next())
}

func TestIDSourceObserve(t *testing.T) {
	ids := &IDSource{now: func() time.Time { return time.UnixMilli(10) }}
	ids.Observe("not-a-number")
	ids.Observe("41")
	ids.Observe("7")
	assert.Equal(t, "42", ids.Next())
}
