package eventbus

import "sync"

type event struct {
	topic   string
	payload interface{}
}

// Bus delivers published events to topic subscribers one at a time, in
// publish order, on a single dispatch goroutine. Handlers never run
// concurrently with each other, so subscriber state mutated only from
// handlers needs no further locking.
type Bus struct {
	mutex       sync.Mutex
	cond        *sync.Cond
	subscribers map[string][]func(interface{})
	queue       []event
	dispatching bool
	closed      bool
}

func NewBus() (bus *Bus) {
	bus = &Bus{
		subscribers: make(map[string][]func(interface{})),
	}
	bus.cond = sync.NewCond(&bus.mutex)
	go bus.run()
	return
}

// Subscribe registers a handler for a topic. Handlers for the same topic
// are invoked in subscription order.
func (bus *Bus) Subscribe(topic string, handler func(interface{})) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	bus.subscribers[topic] = append(bus.subscribers[topic], handler)
}

// Publish enqueues an event. It never blocks the publisher and is safe to
// call from inside a handler.
func (bus *Bus) Publish(topic string, payload interface{}) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	if bus.closed {
		return
	}
	bus.queue = append(bus.queue, event{topic: topic, payload: payload})
	bus.cond.Broadcast()
}

// Sync blocks until every event published so far has been handled.
func (bus *Bus) Sync() {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	for len(bus.queue) > 0 || bus.dispatching {
		bus.cond.Wait()
	}
}

// Close drops any undelivered events and stops the dispatch goroutine.
func (bus *Bus) Close() {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	bus.closed = true
	bus.queue = nil
	bus.cond.Broadcast()
}

func (bus *Bus) run() {
	bus.mutex.Lock()
	for {
		for len(bus.queue) == 0 && !bus.closed {
			bus.cond.Wait()
		}
		if bus.closed {
			bus.mutex.Unlock()
			return
		}
		next := bus.queue[0]
		bus.queue = bus.queue[1:]
		handlers := append([]func(interface{}){}, bus.subscribers[next.topic]...)
		bus.dispatching = true
		bus.mutex.Unlock()
		for _, handler := range handlers {
			handler(next.payload)
		}
		bus.mutex.Lock()
		bus.dispatching = false
		bus.cond.Broadcast()
	}
}
