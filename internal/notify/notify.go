// Package notify is the transient notification surface of the front end.
// Any component may push a toast; the rendering layer subscribes to show
// them. Pushing never blocks the producer.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is one toast entry.
type Notification struct {
	ID       string
	Severity Severity
	Message  string
	Created  time.Time
}

// How many delivered notifications are retained for late subscribers.
const historyLimit = 64

// Center collects notifications and fans them out to subscribers.
type Center struct {
	mutex       sync.Mutex
	subscribers []func(Notification)
	history     []Notification
}

func NewCenter() *Center {
	return &Center{}
}

// Subscribe registers a callback invoked for every future notification.
func (center *Center) Subscribe(callback func(Notification)) {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	center.subscribers = append(center.subscribers, callback)
}

// Push delivers a notification to every subscriber.
func (center *Center) Push(severity Severity, message string) Notification {
	notification := Notification{
		ID:       uuid.NewString(),
		Severity: severity,
		Message:  message,
		Created:  time.Now(),
	}

	switch severity {
	case SeverityWarning:
		logrus.Warn(message)
	case SeverityError:
		logrus.Error(message)
	default:
		logrus.Debug(message)
	}

	center.mutex.Lock()
	center.history = append(center.history, notification)
	if len(center.history) > historyLimit {
		center.history = center.history[len(center.history)-historyLimit:]
	}
	subscribers := append([]func(Notification){}, center.subscribers...)
	center.mutex.Unlock()

	for _, subscriber := range subscribers {
		subscriber(notification)
	}
	return notification
}

func (center *Center) Info(message string) Notification {
	return center.Push(SeverityInfo, message)
}

func (center *Center) Success(message string) Notification {
	return center.Push(SeveritySuccess, message)
}

func (center *Center) Warn(message string) Notification {
	return center.Push(SeverityWarning, message)
}

func (center *Center) Error(message string) Notification {
	return center.Push(SeverityError, message)
}

// History returns a copy of the retained notifications, oldest first.
func (center *Center) History() []Notification {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	return append([]Notification{}, center.history...)
}
