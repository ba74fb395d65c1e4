// Package shell boots the launcher front-end: it initializes the state
// components concurrently and tells the window layer when they are ready.
package shell

import "sync"

// Component is a piece of launcher state that needs to be brought up
// before the window is shown.
type Component interface {
	Initialize(waitGroup *sync.WaitGroup)
}

// Handler is notified once every component has been initialized.
type Handler interface {
	NotifyStarted()
}

// ComponentFunc adapts an initialization function into a Component.
type ComponentFunc func()

func (componentFunc ComponentFunc) Initialize(waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()
	componentFunc()
}
