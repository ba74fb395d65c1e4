// Package backend defines the surface of the native launcher backend as
// seen from the front end: a command invoker for request/response calls
// and the names and payloads of the events the backend pushes.
package backend

import (
	"context"
	"encoding/json"
)

// Invoker executes a named backend command. It is the only path from the
// front end to the native side; implementations marshal the arguments,
// perform the call and return the raw response for the caller to decode.
type Invoker interface {
	Invoke(ctx context.Context, command string, args interface{}) (json.RawMessage, error)
}

// Backend command names.
const (
	CommandCancelTask             = "cancel_task"
	CommandGetDeclarativeContents = "get_declarative_package_contents"
	CommandGetPackageMeta         = "get_package_meta"
	CommandGetPackageProps        = "get_package_props"
	CommandLaunchInstance         = "launch_instance"
	CommandKillInstance           = "kill_instance"
	CommandCopyToClipboard        = "copy_to_clipboard"
	CommandGetLocalPlugins        = "get_local_plugins"
)

// Backend event topics. Task-scoped events carry the task id as their
// payload unless a richer payload type is listed below.
const (
	EventCreateTask       = "lodestone_output_create_task"
	EventFinishTask       = "lodestone_output_finish_task"
	EventMessage          = "lodestone_output_message"
	EventProgress         = "lodestone_output_progress"
	EventStartProcess     = "lodestone_output_start_process"
	EventEndProcess       = "lodestone_output_end_process"
	EventStartSection     = "lodestone_output_start_section"
	EventEndSection       = "lodestone_output_end_section"
	EventResolutionError  = "lodestone_display_resolution_error"
	EventRunningInstances = "lodestone_update_running_instances"
)

// MessageType is the severity of a message event.
type MessageType string

const (
	MessageSimple       MessageType = "simple"
	MessageHeader       MessageType = "header"
	MessageStartProcess MessageType = "start_process"
	MessageWarning      MessageType = "warning"
	MessageError        MessageType = "error"
)

// MessageEvent is the payload of EventMessage. Task is empty for
// messages not tied to any task.
type MessageEvent struct {
	Message string      `json:"message"`
	Type    MessageType `json:"type"`
	Task    string      `json:"task,omitempty"`
}

// ProgressEvent is the payload of EventProgress.
type ProgressEvent struct {
	Current uint32 `json:"current"`
	Total   uint32 `json:"total"`
	Message string `json:"message"`
	Task    string `json:"task,omitempty"`
}

// ResolutionErrorEvent is the payload of EventResolutionError. The error
// body is backend-defined and passed through to the view untouched.
type ResolutionErrorEvent struct {
	Error    json.RawMessage `json:"error"`
	Instance string          `json:"instance"`
}

// RunningInstancesEvent is the payload of EventRunningInstances.
type RunningInstancesEvent struct {
	RunningInstances []string `json:"running_instances"`
}

// CancelTaskArgs is the argument of CommandCancelTask.
type CancelTaskArgs struct {
	Task string `json:"task"`
}

// PackageArgs identifies a package for the package metadata commands.
type PackageArgs struct {
	Package string `json:"package"`
}

// InstanceArgs identifies an instance for the launch and kill commands.
type InstanceArgs struct {
	Instance string `json:"instance"`
}

// ClipboardArgs is the argument of CommandCopyToClipboard.
type ClipboardArgs struct {
	Text string `json:"text"`
}
