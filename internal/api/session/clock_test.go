package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartClock(t *testing.T) {
	t.Run("valid timezone formats immediately", func(t *testing.T) {
		clock := StartClock("Asia/Karachi")
		defer clock.Stop()

		loc, err := time.LoadLocation("Asia/Karachi")
		assert.NoError(t, err)
		display := clock.Display()
		assert.Contains(t,
			[]string{time.Now().In(loc).Format("3:04 PM"), time.Now().In(loc).Add(-time.Minute).Format("3:04 PM")},
			display)
	})

	t.Run("invalid timezone pins the error token", func(t *testing.T) {
		clock := StartClock("Not/AZone")
		assert.Equal(t, "Invalid Timezone", clock.Display())
		clock.Stop()
		assert.Equal(t, "Invalid Timezone", clock.Display())
	})

	t.Run("empty timezone pins the error token", func(t *testing.T) {
		clock := StartClock("")
		assert.Equal(t, "Invalid Timezone", clock.Display())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		clock := StartClock("Asia/Karachi")
		clock.Stop()
		assert.NotPanics(t, func() {
			clock.Stop()
			clock.Stop()
		})
	})
}
