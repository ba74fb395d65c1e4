// Package instance tracks which instances the backend reports as
// running and issues launch and kill requests for them.
package instance

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"lodestone.dev/frontend/internal/backend"
	"lodestone.dev/frontend/internal/notify"
	"lodestone.dev/frontend/pkg/eventbus"
)

// Registry mirrors the backend's running instance set. Components that
// need the list subscribe instead of reaching for shared globals.
type Registry struct {
	mutex       sync.Mutex
	invoker     backend.Invoker
	notifier    *notify.Center
	running     map[string]bool
	subscribers []func([]string)
}

func NewRegistry(invoker backend.Invoker, notifier *notify.Center) *Registry {
	return &Registry{
		invoker:  invoker,
		notifier: notifier,
		running:  make(map[string]bool),
	}
}

// Attach subscribes the registry to running instance updates on the bus.
func (registry *Registry) Attach(bus *eventbus.Bus) {
	bus.Subscribe(backend.EventRunningInstances, func(payload interface{}) {
		if event, ok := payload.(backend.RunningInstancesEvent); ok {
			registry.HandleUpdate(event)
		}
	})
}

// HandleUpdate replaces the running set. Subscribers are notified only
// when the set actually changed.
func (registry *Registry) HandleUpdate(event backend.RunningInstancesEvent) {
	registry.mutex.Lock()
	updated := make(map[string]bool, len(event.RunningInstances))
	for _, id := range event.RunningInstances {
		updated[id] = true
	}
	changed := len(updated) != len(registry.running)
	if !changed {
		for id := range updated {
			if !registry.running[id] {
				changed = true
				break
			}
		}
	}
	registry.running = updated
	subscribers := append([]func([]string){}, registry.subscribers...)
	registry.mutex.Unlock()

	if !changed {
		return
	}
	snapshot := registry.Running()
	for _, subscriber := range subscribers {
		subscriber(snapshot)
	}
}

// Subscribe registers a callback invoked with the sorted running list
// whenever it changes.
func (registry *Registry) Subscribe(callback func([]string)) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.subscribers = append(registry.subscribers, callback)
}

// Running returns the sorted ids of the running instances.
func (registry *Registry) Running() []string {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	ids := make([]string, 0, len(registry.running))
	for id := range registry.running {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsRunning reports whether an instance id is currently running.
func (registry *Registry) IsRunning(id string) bool {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	return registry.running[id]
}

// Launch asks the backend to start an instance. The running list is
// updated only by the next running instances event.
func (registry *Registry) Launch(ctx context.Context, id string) {
	if _, err := registry.invoker.Invoke(ctx, backend.CommandLaunchInstance, backend.InstanceArgs{Instance: id}); err != nil {
		logrus.Error("Launch request for instance ", id, " failed: ", err)
		registry.notifier.Error("Failed to launch instance " + id)
	}
}

// Kill asks the backend to stop an instance.
func (registry *Registry) Kill(ctx context.Context, id string) {
	if _, err := registry.invoker.Invoke(ctx, backend.CommandKillInstance, backend.InstanceArgs{Instance: id}); err != nil {
		logrus.Error("Kill request for instance ", id, " failed: ", err)
		registry.notifier.Error("Failed to stop instance " + id)
	}
}
