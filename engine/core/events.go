package core

import "sync"

type EventContext struct {
	Data struct {
		I64 [2]int64
		U64 [2]uint64
		F64 [2]float64

		I32 [4]int32
		U32 [4]uint32
	}
	// Payload carries anything that does not fit the fixed fields.
	Payload interface{}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Framebuffer resized.
	/* Context usage:
	 * u32 width = data.U32[0];
	 * u32 height = data.U32[1];
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// A frame finished post-processing and the pixel buffer may be read.
	/* Context usage:
	 * u64 frame = data.U64[0];
	 * f64 seconds = data.F64[0];
	 */
	EVENT_CODE_FRAME_READY SystemEventCode = 0x09

	// A new configuration was applied.
	/* Context usage:
	 * payload = *config.Snapshot
	 */
	EVENT_CODE_CONFIG_CHANGED SystemEventCode = 0x0A

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// State structure.
type eventSystemState struct {
	mu sync.RWMutex
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

var eventState = &eventSystemState{}

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

// EventShutdown drops every registration.
func EventShutdown() error {
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	for i := 0; i < MAX_MESSAGE_CODES; i++ {
		eventState.registered[i].events = nil
	}
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A listener instance. Can be nil.
 * @param onEvent The callback function to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code < 0 || int(code) >= MAX_MESSAGE_CODES || onEvent == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	for _, e := range eventState.registered[code].events {
		if e.listener == listener {
			LogWarn("event code %d already has this listener registered", code)
			return false
		}
	}
	eventState.registered[code].events = append(eventState.registered[code].events, &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	if code < 0 || int(code) >= MAX_MESSAGE_CODES {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	events := eventState.registered[code].events
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code].events = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * Callbacks run on the firing goroutine, outside the registry lock.
 * @returns true if handled, otherwise false.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if code < 0 || int(code) >= MAX_MESSAGE_CODES {
		return false
	}
	eventState.mu.RLock()
	events := append([]*registeredEvent(nil), eventState.registered[code].events...)
	eventState.mu.RUnlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
