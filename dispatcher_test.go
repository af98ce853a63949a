package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestTable() *subscriptionTable {
	return newSubscriptionTable(NewNoopDebugger())
}

func TestOnDispatchOff(t *testing.T) {
	table := newTestTable()

	var got []any
	off := table.on("x", func(data any) { got = append(got, data) })

	table.dispatch("x", "P")
	assert.Equal(t, []any{"P"}, got)

	off()
	table.dispatch("x", "Q")
	assert.Equal(t, []any{"P"}, got)
}

func TestDuplicateRegistrationDeliversTwice(t *testing.T) {
	table := newTestTable()

	count := 0
	cb := func(data any) { count++ }
	table.on("x", cb)
	offSecond := table.on("x", cb)

	table.dispatch("x", nil)
	assert.Equal(t, 2, count)

	// The unsubscribe func removes only its own registration.
	offSecond()
	table.dispatch("x", nil)
	assert.Equal(t, 3, count)
}

func TestOffFirstMatchOnly(t *testing.T) {
	table := newTestTable()

	count := 0
	cb := func(data any) { count++ }
	table.on("x", cb)
	table.on("x", cb)

	table.off("x", cb)
	table.dispatch("x", nil)
	assert.Equal(t, 1, count)
}

func TestOffWithoutCallbackRemovesAll(t *testing.T) {
	table := newTestTable()

	count := 0
	table.on("x", func(data any) { count++ })
	table.on("x", func(data any) { count++ })
	table.on("y", func(data any) { count++ })

	table.off("x")
	table.dispatch("x", nil)
	table.dispatch("y", nil)
	assert.Equal(t, 1, count)
}

func TestDispatchOrder(t *testing.T) {
	table := newTestTable()

	var order []int
	table.on("x", func(data any) { order = append(order, 1) })
	table.on("x", func(data any) { order = append(order, 2) })
	table.on("x", func(data any) { order = append(order, 3) })

	table.dispatch("x", nil)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestWildcardReceivesEveryEvent(t *testing.T) {
	table := newTestTable()

	var events []Event
	var exact []any
	table.on("x", func(data any) { exact = append(exact, data) })
	table.onAny(func(event Event) { events = append(events, event) })

	table.dispatch("x", "P")
	table.dispatch("y", "Q")

	assert.Equal(t, []any{"P"}, exact)
	assert.Equal(t, []Event{{Name: "x", Data: "P"}, {Name: "y", Data: "Q"}}, events)
}

func TestWildcardRunsAfterExact(t *testing.T) {
	table := newTestTable()

	var order []string
	table.onAny(func(event Event) { order = append(order, "any") })
	table.on("x", func(data any) { order = append(order, "exact") })

	table.dispatch("x", nil)
	assert.Equal(t, []string{"exact", "any"}, order)
}

func TestWildcardViaStarKey(t *testing.T) {
	table := newTestTable()

	var got []any
	table.on(EventAny, func(data any) { got = append(got, data) })

	table.dispatch("x", "P")
	assert.Equal(t, []any{Event{Name: "x", Data: "P"}}, got)
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	table := newTestTable()

	called := false
	table.on("x", func(data any) { panic("boom") })
	table.on("x", func(data any) { called = true })

	table.dispatch("x", nil)
	assert.True(t, called)
}

func TestClear(t *testing.T) {
	table := newTestTable()

	count := 0
	table.on("x", func(data any) { count++ })
	table.onAny(func(event Event) { count++ })

	table.clear()
	table.dispatch("x", nil)
	assert.Equal(t, 0, count)

	// A fresh registration after clear starts a new, empty list.
	table.on("x", func(data any) { count++ })
	table.dispatch("x", nil)
	assert.Equal(t, 1, count)
}

func TestOffAny(t *testing.T) {
	table := newTestTable()

	count := 0
	cb := func(event Event) { count++ }
	table.onAny(cb)
	table.offAny(cb)

	table.dispatch("x", nil)
	assert.Equal(t, 0, count)
}
