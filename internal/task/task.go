// Package task aggregates the backend's task output events into a
// render-ready activity summary and a drill-down view of one selected
// task.
package task

import "lodestone.dev/frontend/internal/backend"

// pendingState tracks the one-shot signal sent before certain messages:
// after a start-section event the next header message opens a section,
// after a start-process event the next start-process message names the
// running process. The state is consumed by the first matching message.
type pendingState int

const (
	pendingNone pendingState = iota
	pendingSection
	pendingProcess
)

// Message is one entry of a task's output log.
type Message struct {
	Text string
	Type backend.MessageType
}

// Task is the view state of one running backend task.
type Task struct {
	id       string
	messages []Message
	sections []string
	process  string
	progress *float64
	pending  pendingState
}

func newTask(id string) *Task {
	return &Task{id: id}
}

// Detail is a copy of a task's state, safe to hand to the rendering
// layer. Progress is nil when no progress bar should be shown.
type Detail struct {
	ID          string
	Messages    []Message
	Sections    []string
	Process     string
	Progress    *float64
	Cancellable bool
}

func (task *Task) detail() Detail {
	detail := Detail{
		ID:          task.id,
		Messages:    append([]Message{}, task.messages...),
		Sections:    append([]string{}, task.sections...),
		Process:     task.process,
		Cancellable: Cancellable(task.id),
	}
	if task.progress != nil {
		value := *task.progress
		detail.Progress = &value
	}
	return detail
}
