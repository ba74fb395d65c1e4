package shell

import (
	"fmt"
	"sync"
)

type Controller struct {
	components                     []Component
	handler                        Handler
	coreThreadsInitializationGroup sync.WaitGroup
}

func NewController(components []Component, handler Handler) (controller *Controller) {
	return &Controller{
		components: components,
		handler:    handler,
	}
}

func (controller *Controller) Initialize() {
	for componentIndex, component := range controller.components {
		if component == nil {
			panic(fmt.Sprintf("Component %d is nil", componentIndex))
		}
		controller.coreThreadsInitializationGroup.Add(1)
		go component.Initialize(&controller.coreThreadsInitializationGroup)
	}

	controller.coreThreadsInitializationGroup.Wait()
	controller.handler.NotifyStarted()
}
