package realtime

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// roomSet remembers which rooms this client has asserted interest in.
// The server tracks membership per connection, so after an automatic
// reconnect the new connection must re-assert every room. This is the
// only membership state the client holds; scoping of deliveries is the
// server's responsibility.
type roomSet struct {
	conversations mapset.Set[int64]
	dashboards    mapset.Set[string]
}

func newRoomSet() *roomSet {
	return &roomSet{
		conversations: mapset.NewSet[int64](),
		dashboards:    mapset.NewSet[string](),
	}
}

func (r *roomSet) clear() {
	r.conversations.Clear()
	r.dashboards.Clear()
}
