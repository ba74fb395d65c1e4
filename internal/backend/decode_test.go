package backend_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"lodestone.dev/frontend/internal/backend"
)

func TestDecodeTaskLifecycleEvents(t *testing.T) {
	payload, err := backend.DecodeEvent(backend.EventCreateTask, json.RawMessage(`"sync_packages"`))
	assert.NoError(t, err)
	assert.Equal(t, "sync_packages", payload)

	payload, err = backend.DecodeEvent(backend.EventEndSection, json.RawMessage(`"load_packages"`))
	assert.NoError(t, err)
	assert.Equal(t, "load_packages", payload)
}

func TestDecodeMessageEvent(t *testing.T) {
	payload, err := backend.DecodeEvent(backend.EventMessage,
		json.RawMessage(`{"message":"Downloading","type":"simple","task":"sync_packages"}`))
	assert.NoError(t, err)
	event, ok := payload.(backend.MessageEvent)
	assert.True(t, ok)
	assert.Equal(t, "Downloading", event.Message)
	assert.Equal(t, backend.MessageSimple, event.Type)
	assert.Equal(t, "sync_packages", event.Task)
}

func TestDecodeProgressEvent(t *testing.T) {
	payload, err := backend.DecodeEvent(backend.EventProgress,
		json.RawMessage(`{"current":3,"total":10,"message":"files","task":"sync_packages"}`))
	assert.NoError(t, err)
	event, ok := payload.(backend.ProgressEvent)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), event.Current)
	assert.Equal(t, uint32(10), event.Total)
}

func TestDecodeRunningInstancesEvent(t *testing.T) {
	payload, err := backend.DecodeEvent(backend.EventRunningInstances,
		json.RawMessage(`{"running_instances":["survival"]}`))
	assert.NoError(t, err)
	event, ok := payload.(backend.RunningInstancesEvent)
	assert.True(t, ok)
	assert.Equal(t, []string{"survival"}, event.RunningInstances)
}

func TestDecodeUnknownEvent(t *testing.T) {
	_, err := backend.DecodeEvent("lodestone_no_such_event", json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestDecodeMalformedPayload(t *testing.T) {
	_, err := backend.DecodeEvent(backend.EventProgress, json.RawMessage(`"nope"`))
	assert.Error(t, err)
}
