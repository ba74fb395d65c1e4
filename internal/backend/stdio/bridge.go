// Package stdio speaks the launcher backend protocol over a pair of
// byte streams: newline-delimited JSON, commands multiplexed by id,
// events forwarded to the bus.
package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"lodestone.dev/frontend/internal/backend"
	"lodestone.dev/frontend/pkg/eventbus"
)

var ErrClosed = errors.New("backend connection closed")

type request struct {
	ID      uint64      `json:"id"`
	Command string      `json:"command"`
	Args    interface{} `json:"args,omitempty"`
}

type incoming struct {
	ID      uint64          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type response struct {
	result json.RawMessage
	err    error
}

// Bridge is a backend.Invoker over a stream connection. Run must be
// pumping the read side for Invoke calls to complete.
type Bridge struct {
	bus *eventbus.Bus

	writeMutex sync.Mutex
	writer     io.Writer

	mutex   sync.Mutex
	nextID  uint64
	pending map[uint64]chan response
	closed  bool
}

func NewBridge(writer io.Writer, bus *eventbus.Bus) *Bridge {
	return &Bridge{
		bus:     bus,
		writer:  writer,
		pending: make(map[uint64]chan response),
	}
}

// Invoke sends one command and waits for its response or the context.
func (bridge *Bridge) Invoke(ctx context.Context, command string, args interface{}) (json.RawMessage, error) {
	bridge.mutex.Lock()
	if bridge.closed {
		bridge.mutex.Unlock()
		return nil, ErrClosed
	}
	bridge.nextID++
	id := bridge.nextID
	waiter := make(chan response, 1)
	bridge.pending[id] = waiter
	bridge.mutex.Unlock()

	line, err := json.Marshal(request{ID: id, Command: command, Args: args})
	if err != nil {
		bridge.forget(id)
		return nil, err
	}
	bridge.writeMutex.Lock()
	_, err = bridge.writer.Write(append(line, '\n'))
	bridge.writeMutex.Unlock()
	if err != nil {
		bridge.forget(id)
		return nil, err
	}

	select {
	case <-ctx.Done():
		bridge.forget(id)
		return nil, ctx.Err()
	case reply := <-waiter:
		return reply.result, reply.err
	}
}

// Run reads the stream until it ends, resolving command responses and
// publishing decoded events onto the bus. It returns the read error, or
// nil on a clean end of stream.
func (bridge *Bridge) Run(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var message incoming
		if err := json.Unmarshal(scanner.Bytes(), &message); err != nil {
			logrus.Warn("Discarding malformed backend line: ", err)
			continue
		}
		if message.Event != "" {
			bridge.publish(message.Event, message.Payload)
			continue
		}
		bridge.resolve(message)
	}
	err := scanner.Err()
	bridge.shutdown()
	return err
}

func (bridge *Bridge) publish(event string, payload json.RawMessage) {
	decoded, err := backend.DecodeEvent(event, payload)
	if err != nil {
		logrus.Warn("Discarding backend event ", event, ": ", err)
		return
	}
	bridge.bus.Publish(event, decoded)
}

func (bridge *Bridge) resolve(message incoming) {
	bridge.mutex.Lock()
	waiter, ok := bridge.pending[message.ID]
	delete(bridge.pending, message.ID)
	bridge.mutex.Unlock()
	if !ok {
		logrus.Debug("Dropping response for unknown request ", message.ID)
		return
	}
	if message.Error != "" {
		waiter <- response{err: fmt.Errorf("backend: %s", message.Error)}
		return
	}
	waiter <- response{result: message.Result}
}

func (bridge *Bridge) forget(id uint64) {
	bridge.mutex.Lock()
	delete(bridge.pending, id)
	bridge.mutex.Unlock()
}

// shutdown fails every in-flight call once the stream is gone.
func (bridge *Bridge) shutdown() {
	bridge.mutex.Lock()
	defer bridge.mutex.Unlock()
	bridge.closed = true
	for id, waiter := range bridge.pending {
		waiter <- response{err: ErrClosed}
		delete(bridge.pending, id)
	}
}
