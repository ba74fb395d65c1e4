package task

import "strings"

// Color is the accent category of the activity indicator.
type Color string

const (
	ColorDisabled Color = "disabled"
	ColorInstance Color = "instance"
	ColorPackage  Color = "package"
	ColorPlugin   Color = "plugin"
	ColorRunning  Color = "running"
)

// Known backend task ids and their display names.
var taskLabels = map[string]string{
	"sync_packages":       "Syncing packages",
	"search_packages":     "Searching packages",
	"load_packages":       "Loading packages",
	"get_plugins":         "Fetching plugins",
	"install_plugins":     "Installing plugins",
	"get_plugin_versions": "Fetching plugin versions",
}

var taskColors = map[string]Color{
	"sync_packages":       ColorPackage,
	"search_packages":     ColorPackage,
	"load_packages":       ColorPackage,
	"get_plugins":         ColorPlugin,
	"install_plugins":     ColorPlugin,
	"get_plugin_versions": ColorPlugin,
}

// Task id prefixes used for instance-scoped tasks; the suffix is the
// instance id.
const (
	launchTaskPrefix = "launch_"
	updateTaskPrefix = "update_"
)

// LabelFor returns the display name of a task id, falling back to a
// human-readable form of the raw id.
func LabelFor(id string) string {
	if label, ok := taskLabels[id]; ok {
		return label
	}
	if instance, ok := strings.CutPrefix(id, launchTaskPrefix); ok {
		return "Launching " + instance
	}
	if instance, ok := strings.CutPrefix(id, updateTaskPrefix); ok {
		return "Updating " + instance
	}
	return humanize(id)
}

// ColorFor returns the accent category of a task id.
func ColorFor(id string) Color {
	if color, ok := taskColors[id]; ok {
		return color
	}
	if strings.HasPrefix(id, launchTaskPrefix) || strings.HasPrefix(id, updateTaskPrefix) {
		return ColorInstance
	}
	return ColorRunning
}

// Cancellable reports whether the backend accepts a cancel request for
// this task id.
func Cancellable(id string) bool {
	if id == "sync_packages" {
		return true
	}
	return strings.HasPrefix(id, launchTaskPrefix) || strings.HasPrefix(id, updateTaskPrefix)
}

func humanize(id string) string {
	if id == "" {
		return "Task"
	}
	words := strings.ReplaceAll(id, "_", " ")
	return strings.ToUpper(words[:1]) + words[1:]
}
