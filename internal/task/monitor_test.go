package task_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"lodestone.dev/frontend/internal/backend"
	"lodestone.dev/frontend/internal/backend/mock"
	"lodestone.dev/frontend/internal/notify"
	"lodestone.dev/frontend/internal/task"
	"lodestone.dev/frontend/pkg/eventbus"
)

func newMonitor() (*task.Monitor, *mock.Invoker, *notify.Center) {
	invoker := &mock.Invoker{
		Responses: map[string]json.RawMessage{
			backend.CommandCancelTask: json.RawMessage(`null`),
		},
	}
	center := notify.NewCenter()
	return task.NewMonitor(invoker, center), invoker, center
}

func TestActiveCountMatchesDistinctTasks(t *testing.T) {
	monitor, _, _ := newMonitor()

	monitor.HandleTaskCreated("sync_packages")
	monitor.HandleTaskCreated("launch_survival")
	monitor.HandleTaskCreated("sync_packages") // duplicate must not double-count
	assert.Equal(t, 2, monitor.ActiveCount())

	monitor.HandleTaskFinished("sync_packages")
	assert.Equal(t, 1, monitor.ActiveCount())

	monitor.HandleTaskFinished("sync_packages") // already gone, no-op
	assert.Equal(t, 1, monitor.ActiveCount())

	monitor.HandleTaskFinished("launch_survival")
	assert.Equal(t, 0, monitor.ActiveCount())
}

func TestMessageClearsProgress(t *testing.T) {
	monitor, _, _ := newMonitor()

	monitor.HandleTaskCreated("sync_packages")
	monitor.HandleProgress(backend.ProgressEvent{Current: 3, Total: 10, Task: "sync_packages"})

	detail, ok := monitor.Detail("sync_packages")
	assert.True(t, ok)
	if assert.NotNil(t, detail.Progress) {
		assert.InDelta(t, 0.3, *detail.Progress, 1e-9)
	}

	monitor.HandleMessage(backend.MessageEvent{
		Message: "done chunk",
		Type:    backend.MessageSimple,
		Task:    "sync_packages",
	})

	detail, _ = monitor.Detail("sync_packages")
	assert.Nil(t, detail.Progress)
	assert.Len(t, detail.Messages, 1)
}

func TestZeroTotalProgressHidesBar(t *testing.T) {
	monitor, _, _ := newMonitor()

	monitor.HandleTaskCreated("sync_packages")
	monitor.HandleProgress(backend.ProgressEvent{Current: 3, Total: 10, Task: "sync_packages"})
	monitor.HandleProgress(backend.ProgressEvent{Current: 3, Total: 0, Task: "sync_packages"})

	detail, _ := monitor.Detail("sync_packages")
	assert.Nil(t, detail.Progress)
}

func TestWarningsAndErrorsBecomeNotifications(t *testing.T) {
	monitor, _, center := newMonitor()

	monitor.HandleTaskCreated("sync_packages")
	monitor.HandleMessage(backend.MessageEvent{
		Message: "repository unreachable",
		Type:    backend.MessageWarning,
		Task:    "sync_packages",
	})
	monitor.HandleMessage(backend.MessageEvent{
		Message: "sync failed",
		Type:    backend.MessageError,
		Task:    "sync_packages",
	})

	detail, _ := monitor.Detail("sync_packages")
	assert.Empty(t, detail.Messages)

	history := center.History()
	assert.Len(t, history, 2)
	assert.Equal(t, notify.SeverityWarning, history[0].Severity)
	assert.Equal(t, notify.SeverityError, history[1].Severity)
}

func TestSectionAndProcessSignalsAreOneShot(t *testing.T) {
	monitor, _, _ := newMonitor()
	monitor.HandleTaskCreated("update_survival")

	// Header without an armed section flag is a plain log entry.
	monitor.HandleMessage(backend.MessageEvent{
		Message: "Downloading assets",
		Type:    backend.MessageHeader,
		Task:    "update_survival",
	})
	detail, _ := monitor.Detail("update_survival")
	assert.Empty(t, detail.Sections)
	assert.Len(t, detail.Messages, 1)

	// Armed: the next header opens a section, and only that one.
	monitor.HandleStartSection("update_survival")
	monitor.HandleMessage(backend.MessageEvent{
		Message: "Installing loader",
		Type:    backend.MessageHeader,
		Task:    "update_survival",
	})
	monitor.HandleMessage(backend.MessageEvent{
		Message: "Another header",
		Type:    backend.MessageHeader,
		Task:    "update_survival",
	})
	detail, _ = monitor.Detail("update_survival")
	assert.Equal(t, []string{"Installing loader"}, detail.Sections)
	assert.Len(t, detail.Messages, 2)

	// Same one-shot behavior for the process name.
	monitor.HandleStartProcess("update_survival")
	monitor.HandleMessage(backend.MessageEvent{
		Message: "Fetching libraries",
		Type:    backend.MessageStartProcess,
		Task:    "update_survival",
	})
	detail, _ = monitor.Detail("update_survival")
	assert.Equal(t, "Fetching libraries", detail.Process)

	monitor.HandleEndProcess("update_survival")
	detail, _ = monitor.Detail("update_survival")
	assert.Empty(t, detail.Process)

	monitor.HandleEndSection("update_survival")
	detail, _ = monitor.Detail("update_survival")
	assert.Empty(t, detail.Sections)
}

func TestUnknownTaskEventsAreNoOps(t *testing.T) {
	monitor, _, _ := newMonitor()

	monitor.HandleMessage(backend.MessageEvent{Message: "orphan", Type: backend.MessageSimple, Task: "ghost"})
	monitor.HandleProgress(backend.ProgressEvent{Current: 1, Total: 2, Task: "ghost"})
	monitor.HandleStartProcess("ghost")
	monitor.HandleEndProcess("ghost")
	monitor.HandleStartSection("ghost")
	monitor.HandleEndSection("ghost")
	monitor.HandleTaskFinished("ghost")

	assert.Equal(t, 0, monitor.ActiveCount())
}

func TestSelectionReclampsWhenTasksFinish(t *testing.T) {
	monitor, _, _ := newMonitor()

	monitor.HandleTaskCreated("a")
	monitor.HandleTaskCreated("b")
	monitor.HandleTaskCreated("c")
	monitor.Select(2)
	assert.Equal(t, 2, monitor.SelectedIndex())

	monitor.HandleTaskFinished("c")
	assert.Equal(t, 0, monitor.SelectedIndex())

	monitor.HandleTaskFinished("a")
	monitor.HandleTaskFinished("b")
	assert.Equal(t, -1, monitor.SelectedIndex())
	_, ok := monitor.Selected()
	assert.False(t, ok)
}

func TestCycleSelectionWrapsToNone(t *testing.T) {
	monitor, _, _ := newMonitor()

	monitor.HandleTaskCreated("a")
	monitor.HandleTaskCreated("b")

	monitor.CycleSelection()
	assert.Equal(t, 0, monitor.SelectedIndex())
	monitor.CycleSelection()
	assert.Equal(t, 1, monitor.SelectedIndex())
	monitor.CycleSelection()
	assert.Equal(t, -1, monitor.SelectedIndex())
}

func TestCycleSelectionTogglesSingleTask(t *testing.T) {
	monitor, _, _ := newMonitor()
	monitor.HandleTaskCreated("a")

	monitor.CycleSelection()
	assert.Equal(t, 0, monitor.SelectedIndex())
	monitor.CycleSelection()
	assert.Equal(t, -1, monitor.SelectedIndex())
	monitor.CycleSelection()
	assert.Equal(t, 0, monitor.SelectedIndex())
}

func TestSummary(t *testing.T) {
	monitor, _, _ := newMonitor()

	summary := monitor.Summary()
	assert.Equal(t, 0, summary.ActiveCount)
	assert.Equal(t, task.ColorDisabled, summary.Color)

	monitor.HandleTaskCreated("sync_packages")
	summary = monitor.Summary()
	assert.Equal(t, 1, summary.ActiveCount)
	assert.Equal(t, task.ColorPackage, summary.Color)
	assert.Equal(t, "Syncing packages", summary.DisplayName)

	monitor.HandleTaskCreated("launch_survival")
	summary = monitor.Summary()
	assert.Equal(t, 2, summary.ActiveCount)
	assert.Equal(t, task.ColorRunning, summary.Color)
	assert.Equal(t, "2 tasks running", summary.DisplayName)
}

func TestCancelIssuesRequestWithoutRemoving(t *testing.T) {
	monitor, invoker, _ := newMonitor()

	monitor.HandleTaskCreated("sync_packages")
	monitor.Select(0)
	monitor.Cancel(context.Background())

	assert.Eventually(t, func() bool {
		return len(invoker.CallsFor(backend.CommandCancelTask)) == 1
	}, time.Second, 5*time.Millisecond)

	// Removal happens only on the finish event.
	assert.Equal(t, 1, monitor.ActiveCount())
	monitor.HandleTaskFinished("sync_packages")
	assert.Equal(t, 0, monitor.ActiveCount())
}

func TestCancelIgnoresNonCancellableTasks(t *testing.T) {
	monitor, invoker, _ := newMonitor()

	monitor.HandleTaskCreated("search_packages")
	monitor.Select(0)
	monitor.Cancel(context.Background())

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, invoker.CallsFor(backend.CommandCancelTask))
}

func TestSyncPackagesLifecycle(t *testing.T) {
	monitor, _, _ := newMonitor()
	bus := eventbus.NewBus()
	defer bus.Close()
	monitor.Attach(bus)

	bus.Publish(backend.EventCreateTask, "sync_packages")
	bus.Publish(backend.EventProgress, backend.ProgressEvent{Current: 3, Total: 10, Task: "sync_packages"})
	bus.Sync()

	monitor.Select(0)
	detail, ok := monitor.Selected()
	assert.True(t, ok)
	if assert.NotNil(t, detail.Progress) {
		assert.InDelta(t, 0.3, *detail.Progress, 1e-9)
	}

	bus.Publish(backend.EventMessage, backend.MessageEvent{
		Message: "done chunk",
		Type:    backend.MessageSimple,
		Task:    "sync_packages",
	})
	bus.Sync()

	detail, _ = monitor.Selected()
	assert.Nil(t, detail.Progress)
	assert.Len(t, detail.Messages, 1)

	bus.Publish(backend.EventFinishTask, "sync_packages")
	bus.Sync()

	assert.Equal(t, 0, monitor.ActiveCount())
	_, ok = monitor.Selected()
	assert.False(t, ok)
}

func TestResolutionErrorIsNotified(t *testing.T) {
	monitor, _, center := newMonitor()

	monitor.HandleResolutionError(backend.ResolutionErrorEvent{Instance: "survival"})

	history := center.History()
	assert.Len(t, history, 1)
	assert.Equal(t, notify.SeverityError, history[0].Severity)
	assert.Contains(t, history[0].Message, "survival")
}
