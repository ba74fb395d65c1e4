package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"lodestone.dev/frontend/internal/backend"
	"lodestone.dev/frontend/internal/notify"
	"lodestone.dev/frontend/pkg/eventbus"
)

// Monitor owns the map of active tasks and the selection index. The
// event handlers are the only writers; the bus delivers them one at a
// time, and the mutex makes the snapshots read from the rendering layer
// consistent.
type Monitor struct {
	mutex    sync.Mutex
	invoker  backend.Invoker
	notifier *notify.Center
	tasks    map[string]*Task
	order    []string
	selected int
}

func NewMonitor(invoker backend.Invoker, notifier *notify.Center) *Monitor {
	return &Monitor{
		invoker:  invoker,
		notifier: notifier,
		tasks:    make(map[string]*Task),
		selected: -1,
	}
}

// Attach subscribes the monitor to every task output topic on the bus.
func (monitor *Monitor) Attach(bus *eventbus.Bus) {
	bus.Subscribe(backend.EventCreateTask, func(payload interface{}) {
		if id, ok := payload.(string); ok {
			monitor.HandleTaskCreated(id)
		}
	})
	bus.Subscribe(backend.EventFinishTask, func(payload interface{}) {
		if id, ok := payload.(string); ok {
			monitor.HandleTaskFinished(id)
		}
	})
	bus.Subscribe(backend.EventMessage, func(payload interface{}) {
		if message, ok := payload.(backend.MessageEvent); ok {
			monitor.HandleMessage(message)
		}
	})
	bus.Subscribe(backend.EventProgress, func(payload interface{}) {
		if progress, ok := payload.(backend.ProgressEvent); ok {
			monitor.HandleProgress(progress)
		}
	})
	bus.Subscribe(backend.EventStartProcess, func(payload interface{}) {
		if id, ok := payload.(string); ok {
			monitor.HandleStartProcess(id)
		}
	})
	bus.Subscribe(backend.EventEndProcess, func(payload interface{}) {
		if id, ok := payload.(string); ok {
			monitor.HandleEndProcess(id)
		}
	})
	bus.Subscribe(backend.EventStartSection, func(payload interface{}) {
		if id, ok := payload.(string); ok {
			monitor.HandleStartSection(id)
		}
	})
	bus.Subscribe(backend.EventEndSection, func(payload interface{}) {
		if id, ok := payload.(string); ok {
			monitor.HandleEndSection(id)
		}
	})
	bus.Subscribe(backend.EventResolutionError, func(payload interface{}) {
		if event, ok := payload.(backend.ResolutionErrorEvent); ok {
			monitor.HandleResolutionError(event)
		}
	})
}

// HandleTaskCreated inserts a new task. Creating an id that is already
// active is a no-op, so replayed create events never double-count.
func (monitor *Monitor) HandleTaskCreated(id string) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if _, exists := monitor.tasks[id]; exists {
		return
	}
	monitor.tasks[id] = newTask(id)
	monitor.order = append(monitor.order, id)
	logrus.Debug("Task created: ", id)
}

// HandleTaskFinished removes a task and re-clamps the selection: when
// the selected index no longer exists it falls back to the first task,
// or to none when no tasks remain.
func (monitor *Monitor) HandleTaskFinished(id string) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if _, exists := monitor.tasks[id]; !exists {
		return
	}
	delete(monitor.tasks, id)
	for index, entry := range monitor.order {
		if entry == id {
			monitor.order = append(monitor.order[:index], monitor.order[index+1:]...)
			break
		}
	}
	monitor.clampSelection()
	logrus.Debug("Task finished: ", id)
}

// HandleMessage routes one message event. Warnings and errors become
// notifications instead of log entries. Header and start-process
// messages consume the one-shot pending state when it is armed;
// everything else is appended to the task log. Any handled message
// clears the task's progress bar.
func (monitor *Monitor) HandleMessage(event backend.MessageEvent) {
	if event.Type == backend.MessageWarning {
		monitor.notifier.Warn(event.Message)
		return
	}
	if event.Type == backend.MessageError {
		monitor.notifier.Error(event.Message)
		return
	}

	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	entry, exists := monitor.tasks[event.Task]
	if !exists {
		return
	}
	entry.progress = nil

	switch {
	case event.Type == backend.MessageHeader && entry.pending == pendingSection:
		entry.sections = append(entry.sections, event.Message)
		entry.pending = pendingNone
	case event.Type == backend.MessageStartProcess && entry.pending == pendingProcess:
		entry.process = event.Message
		entry.pending = pendingNone
	default:
		entry.messages = append(entry.messages, Message{Text: event.Message, Type: event.Type})
	}
}

// HandleProgress updates a task's progress fraction. A zero total means
// the backend has no meaningful bounds, so the bar is hidden.
func (monitor *Monitor) HandleProgress(event backend.ProgressEvent) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	entry, exists := monitor.tasks[event.Task]
	if !exists {
		return
	}
	if event.Total == 0 {
		entry.progress = nil
		return
	}
	fraction := float64(event.Current) / float64(event.Total)
	entry.progress = &fraction
}

// HandleStartProcess arms the task to treat its next start-process
// message as the running process name.
func (monitor *Monitor) HandleStartProcess(id string) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if entry, exists := monitor.tasks[id]; exists {
		entry.pending = pendingProcess
	}
}

func (monitor *Monitor) HandleEndProcess(id string) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if entry, exists := monitor.tasks[id]; exists {
		entry.process = ""
	}
}

// HandleStartSection arms the task to treat its next header message as
// a section opening.
func (monitor *Monitor) HandleStartSection(id string) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if entry, exists := monitor.tasks[id]; exists {
		entry.pending = pendingSection
	}
}

func (monitor *Monitor) HandleEndSection(id string) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if entry, exists := monitor.tasks[id]; exists && len(entry.sections) > 0 {
		entry.sections = entry.sections[:len(entry.sections)-1]
	}
}

// HandleResolutionError surfaces a package resolution failure as an
// error notification; the payload is not retained here.
func (monitor *Monitor) HandleResolutionError(event backend.ResolutionErrorEvent) {
	monitor.notifier.Error("Package resolution failed for instance " + event.Instance)
}

// Summary is the scalar activity state shown in the footer indicator.
type Summary struct {
	ActiveCount int
	Color       Color
	DisplayName string
}

func (monitor *Monitor) Summary() Summary {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	switch len(monitor.order) {
	case 0:
		return Summary{Color: ColorDisabled}
	case 1:
		id := monitor.order[0]
		return Summary{ActiveCount: 1, Color: ColorFor(id), DisplayName: LabelFor(id)}
	default:
		count := len(monitor.order)
		return Summary{
			ActiveCount: count,
			Color:       ColorRunning,
			DisplayName: fmt.Sprintf("%d tasks running", count),
		}
	}
}

// ActiveCount returns the number of created-but-unfinished tasks.
func (monitor *Monitor) ActiveCount() int {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	return len(monitor.order)
}

// Detail returns a snapshot of one task by id.
func (monitor *Monitor) Detail(id string) (Detail, bool) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	entry, exists := monitor.tasks[id]
	if !exists {
		return Detail{}, false
	}
	return entry.detail(), true
}

// Selected returns a snapshot of the selected task, if any.
func (monitor *Monitor) Selected() (Detail, bool) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if monitor.selected < 0 || monitor.selected >= len(monitor.order) {
		return Detail{}, false
	}
	return monitor.tasks[monitor.order[monitor.selected]].detail(), true
}

// SelectedIndex returns the selection index, or -1 for none.
func (monitor *Monitor) SelectedIndex() int {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	return monitor.selected
}

// Select sets the selection to an index of the active task list.
// Out-of-range indices clear the selection.
func (monitor *Monitor) Select(index int) {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if index < 0 || index >= len(monitor.order) {
		monitor.selected = -1
		return
	}
	monitor.selected = index
}

// CycleSelection advances the selection the way clicking the indicator
// does: forward through the active tasks, wrapping to none after the
// last one. With a single active task it toggles between that task and
// none.
func (monitor *Monitor) CycleSelection() {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	count := len(monitor.order)
	switch {
	case count == 0:
		monitor.selected = -1
	case count == 1:
		if monitor.selected == -1 {
			monitor.selected = 0
		} else {
			monitor.selected = -1
		}
	case monitor.selected == -1:
		monitor.selected = 0
	default:
		monitor.selected++
		if monitor.selected >= count {
			monitor.selected = -1
		}
	}
}

// Cancel sends a fire-and-forget cancel request for the selected task.
// The task stays active until the backend emits its finish event.
func (monitor *Monitor) Cancel(ctx context.Context) {
	monitor.mutex.Lock()
	if monitor.selected < 0 || monitor.selected >= len(monitor.order) {
		monitor.mutex.Unlock()
		return
	}
	id := monitor.order[monitor.selected]
	monitor.mutex.Unlock()

	if !Cancellable(id) {
		return
	}
	go func() {
		if _, err := monitor.invoker.Invoke(ctx, backend.CommandCancelTask, backend.CancelTaskArgs{Task: id}); err != nil {
			logrus.Error("Cancel request for task ", id, " failed: ", err)
		}
	}()
}

// clampSelection keeps the selection valid after the task list shrinks.
// Callers must hold the mutex.
func (monitor *Monitor) clampSelection() {
	if monitor.selected >= len(monitor.order) {
		if len(monitor.order) > 0 {
			monitor.selected = 0
		} else {
			monitor.selected = -1
		}
	}
}
