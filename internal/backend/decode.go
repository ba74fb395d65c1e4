package backend

import (
	"encoding/json"
	"fmt"
)

// DecodeEvent turns the raw payload of a named backend event into the
// typed value the subscribers expect. Task-scoped lifecycle events carry
// a bare task id string.
func DecodeEvent(name string, data json.RawMessage) (interface{}, error) {
	switch name {
	case EventCreateTask, EventFinishTask,
		EventStartProcess, EventEndProcess,
		EventStartSection, EventEndSection:
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return nil, err
		}
		return id, nil
	case EventMessage:
		var event MessageEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, err
		}
		return event, nil
	case EventProgress:
		var event ProgressEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, err
		}
		return event, nil
	case EventResolutionError:
		var event ResolutionErrorEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, err
		}
		return event, nil
	case EventRunningInstances:
		var event RunningInstancesEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, err
		}
		return event, nil
	}
	return nil, fmt.Errorf("unknown backend event %s", name)
}
