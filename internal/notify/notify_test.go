package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"lodestone.dev/frontend/internal/notify"
)

func TestPushReachesSubscribers(t *testing.T) {
	center := notify.NewCenter()

	received := []notify.Notification{}
	center.Subscribe(func(notification notify.Notification) {
		received = append(received, notification)
	})

	center.Error("sync failed")
	center.Success("package installed")

	assert.Len(t, received, 2)
	assert.Equal(t, notify.SeverityError, received[0].Severity)
	assert.Equal(t, "sync failed", received[0].Message)
	assert.Equal(t, notify.SeveritySuccess, received[1].Severity)
	assert.NotEqual(t, received[0].ID, received[1].ID)
}

func TestHistoryKeepsOrder(t *testing.T) {
	center := notify.NewCenter()

	center.Info("first")
	center.Warn("second")

	history := center.History()
	assert.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Message)
	assert.Equal(t, "second", history[1].Message)
}

func TestHistoryIsBounded(t *testing.T) {
	center := notify.NewCenter()

	for i := 0; i < 200; i++ {
		center.Info("notification")
	}

	assert.LessOrEqual(t, len(center.History()), 64)
}
