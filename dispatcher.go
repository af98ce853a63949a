package realtime

import (
	"fmt"
	"reflect"

	"github.com/paylio/realtime-go/internal/sync"
)

// EventAny subscribes to every event. Wildcard subscribers receive an
// Event value instead of the bare payload.
const EventAny = "*"

type (
	// EventCallback receives the decoded payload of one inbound event.
	EventCallback func(data any)

	// AnyCallback receives every inbound event, after the exact-name
	// subscribers for that event have run.
	AnyCallback func(event Event)
)

// Event is an inbound event as seen by wildcard subscribers.
type Event struct {
	Name string
	Data any
}

// subscription is one registered callback. Exactly one of fn/anyFn is
// set; ptr identifies the originally registered function for Off.
type subscription struct {
	event string
	fn    EventCallback
	anyFn AnyCallback
	ptr   uintptr
}

// subscriptionTable decouples inbound transport events from their
// subscribers. Registration is append-only per event name: registering
// the same callback twice yields two deliveries.
type subscriptionTable struct {
	mu        sync.Mutex
	subs      map[string][]*subscription
	wildcards []*subscription

	debug Debugger
}

func newSubscriptionTable(debug Debugger) *subscriptionTable {
	return &subscriptionTable{
		subs:  make(map[string][]*subscription),
		debug: debug.WithContext("subscriptionTable"),
	}
}

func funcPtr(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// on registers callback for eventName and returns an unsubscribe
// function bound to this exact registration.
func (t *subscriptionTable) on(eventName string, callback EventCallback) func() {
	if callback == nil {
		return func() {}
	}
	if eventName == EventAny {
		sub := &subscription{
			event: EventAny,
			anyFn: func(event Event) { callback(event) },
			ptr:   funcPtr(callback),
		}
		return t.addWildcard(sub)
	}

	sub := &subscription{
		event: eventName,
		fn:    callback,
		ptr:   funcPtr(callback),
	}
	t.mu.Lock()
	t.subs[eventName] = append(t.subs[eventName], sub)
	t.mu.Unlock()

	return func() { t.removeExact(eventName, sub) }
}

func (t *subscriptionTable) onAny(callback AnyCallback) func() {
	if callback == nil {
		return func() {}
	}
	sub := &subscription{
		event: EventAny,
		anyFn: callback,
		ptr:   funcPtr(callback),
	}
	return t.addWildcard(sub)
}

func (t *subscriptionTable) addWildcard(sub *subscription) func() {
	t.mu.Lock()
	t.wildcards = append(t.wildcards, sub)
	t.mu.Unlock()
	return func() { t.removeWildcard(sub) }
}

// off removes the first registration of each given callback for
// eventName, or every registration for eventName when no callback is
// given.
func (t *subscriptionTable) off(eventName string, callback ...EventCallback) {
	if eventName == "" {
		return
	}
	if eventName == EventAny && len(callback) == 0 {
		t.mu.Lock()
		t.wildcards = nil
		t.mu.Unlock()
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(callback) == 0 {
		delete(t.subs, eventName)
		return
	}

	for _, cb := range callback {
		if cb == nil {
			continue
		}
		ptr := funcPtr(cb)
		if eventName == EventAny {
			t.wildcards = removeFirstByPtr(t.wildcards, ptr)
		} else {
			t.subs[eventName] = removeFirstByPtr(t.subs[eventName], ptr)
		}
	}
}

func (t *subscriptionTable) offAny(callback ...AnyCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(callback) == 0 {
		t.wildcards = nil
		return
	}
	for _, cb := range callback {
		if cb == nil {
			continue
		}
		t.wildcards = removeFirstByPtr(t.wildcards, funcPtr(cb))
	}
}

func removeFirstByPtr(subs []*subscription, ptr uintptr) []*subscription {
	for i, sub := range subs {
		if sub.ptr == ptr {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}

func (t *subscriptionTable) removeExact(eventName string, sub *subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	subs := t.subs[eventName]
	for i, s := range subs {
		if s == sub {
			t.subs[eventName] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

func (t *subscriptionTable) removeWildcard(sub *subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.wildcards {
		if s == sub {
			t.wildcards = append(t.wildcards[:i], t.wildcards[i+1:]...)
			return
		}
	}
}

func (t *subscriptionTable) clear() {
	t.mu.Lock()
	t.subs = make(map[string][]*subscription)
	t.wildcards = nil
	t.mu.Unlock()
}

// dispatch delivers one inbound event: exact-name subscribers first, in
// registration order, then wildcard subscribers wrapped in an Event.
// Synchronous; the caller serializes dispatches, so subscribers observe
// events in transport arrival order.
func (t *subscriptionTable) dispatch(eventName string, data any) {
	t.mu.Lock()
	exact := make([]*subscription, len(t.subs[eventName]))
	copy(exact, t.subs[eventName])
	wildcards := make([]*subscription, len(t.wildcards))
	copy(wildcards, t.wildcards)
	t.mu.Unlock()

	for _, sub := range exact {
		t.call(eventName, func() { sub.fn(data) })
	}
	event := Event{Name: eventName, Data: data}
	for _, sub := range wildcards {
		t.call(eventName, func() { sub.anyFn(event) })
	}
}

// call isolates one subscriber invocation so a panicking callback
// cannot prevent delivery to the remaining subscribers.
func (t *subscriptionTable) call(eventName string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			t.debug.Log("Recovered panicking handler", fmt.Sprintf("event: %s: %v", eventName, r))
		}
	}()
	f()
}
