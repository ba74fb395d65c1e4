// Package mock provides a scripted backend invoker for tests.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// Call records one command invocation.
type Call struct {
	Command string
	Args    interface{}
}

// Invoker returns canned responses per command and records every call.
type Invoker struct {
	mutex sync.Mutex
	calls []Call

	// Responses maps a command name to its raw JSON response.
	Responses map[string]json.RawMessage
	// Errors maps a command name to the error it should fail with.
	Errors map[string]error
}

func (invoker *Invoker) Invoke(_ context.Context, command string, args interface{}) (json.RawMessage, error) {
	invoker.mutex.Lock()
	invoker.calls = append(invoker.calls, Call{Command: command, Args: args})
	invoker.mutex.Unlock()

	if err, ok := invoker.Errors[command]; ok {
		return nil, err
	}
	if response, ok := invoker.Responses[command]; ok {
		return response, nil
	}
	return nil, errors.New("unexpected command: " + command)
}

// Calls returns a copy of the recorded invocations.
func (invoker *Invoker) Calls() []Call {
	invoker.mutex.Lock()
	defer invoker.mutex.Unlock()
	return append([]Call{}, invoker.calls...)
}

// CallsFor returns the recorded invocations of one command.
func (invoker *Invoker) CallsFor(command string) (matched []Call) {
	for _, call := range invoker.Calls() {
		if call.Command == command {
			matched = append(matched, call)
		}
	}
	return
}
