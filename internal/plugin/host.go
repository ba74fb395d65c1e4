// Package plugin hosts launcher plugins behind a fixed capability
// surface. Plugins never touch ambient globals; everything they may do
// is enumerated on the Capabilities interface they receive at init.
package plugin

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"lodestone.dev/frontend/internal/backend"
	"lodestone.dev/frontend/internal/notify"
)

// Capabilities is the versioned contract between the front end and a
// plugin. Adding a member is a compatible change; removing or changing
// one is not.
type Capabilities interface {
	// InvokeCommand runs a backend command on behalf of the plugin.
	InvokeCommand(ctx context.Context, command string, args interface{}) (json.RawMessage, error)
	// ShowNotification pushes a toast to the notification surface.
	ShowNotification(severity notify.Severity, message string)
	// OpenModal opens a registered modal by id.
	OpenModal(id string) error
	// RegisterPeriodicTask schedules a recurring callback. The returned
	// function cancels it; the host also cancels every task on Close.
	RegisterPeriodicTask(interval time.Duration, run func()) (cancel func())
	// CopyToClipboard places text on the system clipboard.
	CopyToClipboard(ctx context.Context, text string) error
}

// Plugin is a front-end plugin. Init receives the capability surface
// and is called exactly once, at registration.
type Plugin interface {
	ID() string
	Init(capabilities Capabilities) error
}

// Host owns the registered plugins and implements Capabilities for
// them.
type Host struct {
	mutex     sync.Mutex
	invoker   backend.Invoker
	notifier  *notify.Center
	openModal func(id string) error
	plugins   map[string]Plugin
	stoppers  []*taskStopper
	closed    bool
}

// taskStopper shuts a periodic task down exactly once, whether the
// plugin cancels it or the host closes.
type taskStopper struct {
	done chan struct{}
	once sync.Once
}

func (stopper *taskStopper) stop() {
	stopper.once.Do(func() { close(stopper.done) })
}

func NewHost(invoker backend.Invoker, notifier *notify.Center, openModal func(id string) error) *Host {
	return &Host{
		invoker:   invoker,
		notifier:  notifier,
		openModal: openModal,
		plugins:   make(map[string]Plugin),
	}
}

// Register initializes a plugin against the host's capability surface.
// A failing plugin is reported and skipped; it never takes the front end
// down.
func (host *Host) Register(plugin Plugin) {
	if err := plugin.Init(host); err != nil {
		logrus.Error("Plugin ", plugin.ID(), " failed to initialize: ", err)
		host.notifier.Warn("Plugin " + plugin.ID() + " failed to initialize")
		return
	}
	host.mutex.Lock()
	host.plugins[plugin.ID()] = plugin
	host.mutex.Unlock()
	logrus.Info("Plugin ", plugin.ID(), " registered")
}

// Registered returns the sorted ids of the active plugins.
func (host *Host) Registered() []string {
	host.mutex.Lock()
	defer host.mutex.Unlock()
	ids := make([]string, 0, len(host.plugins))
	for id := range host.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close cancels every periodic task registered by plugins.
func (host *Host) Close() {
	host.mutex.Lock()
	defer host.mutex.Unlock()
	if host.closed {
		return
	}
	host.closed = true
	for _, stopper := range host.stoppers {
		stopper.stop()
	}
	host.stoppers = nil
}

func (host *Host) InvokeCommand(ctx context.Context, command string, args interface{}) (json.RawMessage, error) {
	return host.invoker.Invoke(ctx, command, args)
}

func (host *Host) ShowNotification(severity notify.Severity, message string) {
	host.notifier.Push(severity, message)
}

func (host *Host) OpenModal(id string) error {
	return host.openModal(id)
}

func (host *Host) RegisterPeriodicTask(interval time.Duration, run func()) (cancel func()) {
	stopper := &taskStopper{done: make(chan struct{})}

	host.mutex.Lock()
	if host.closed {
		host.mutex.Unlock()
		return func() {}
	}
	host.stoppers = append(host.stoppers, stopper)
	host.mutex.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				run()
			case <-stopper.done:
				return
			}
		}
	}()

	return stopper.stop
}

func (host *Host) CopyToClipboard(ctx context.Context, text string) error {
	_, err := host.invoker.Invoke(ctx, backend.CommandCopyToClipboard, backend.ClipboardArgs{Text: text})
	return err
}

// Info describes an installed or available plugin for the plugins page.
type Info struct {
	ID          string `json:"id"`
	Version     string `json:"version,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
	Installed   bool   `json:"installed"`
	Official    bool   `json:"is_official"`
}

// FetchLocal lists the plugins installed on the backend, sorted by id.
// Failures produce an error notification and ok == false.
func (host *Host) FetchLocal(ctx context.Context) (infos []Info, ok bool) {
	response, err := host.invoker.Invoke(ctx, backend.CommandGetLocalPlugins, nil)
	if err == nil {
		err = json.Unmarshal(response, &infos)
	}
	if err != nil {
		logrus.Error("Failed to list local plugins: ", err)
		host.notifier.Error("Failed to load plugins")
		return nil, false
	}
	sort.Slice(infos, func(left, right int) bool { return infos[left].ID < infos[right].ID })
	return infos, true
}
