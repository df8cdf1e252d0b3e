package editor

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Store keeps open sessions in memory. Sessions expire after the TTL since
// their last lookup; a session leaving the store for any reason is torn
// down, which aborts its in-flight requests.
type Store struct {
	items *cache.Cache
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(_ string, v any) {
		if s, ok := v.(*Session); ok {
			s.teardown()
		}
	})
	return &Store{items: c}
}

func (st *Store) Add(s *Session) {
	st.items.Set(s.ID(), s, cache.DefaultExpiration)
}

// Get returns the session and resets its expiry.
func (st *Store) Get(id string) (*Session, bool) {
	v, ok := st.items.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	st.items.Set(id, s, cache.DefaultExpiration)
	return s, true
}

func (st *Store) Remove(id string) {
	st.items.Delete(id)
}

func (st *Store) Len() int {
	return st.items.ItemCount()
}

// List returns the open sessions in no particular order.
func (st *Store) List() []*Session {
	items := st.items.Items()
	out := make([]*Session, 0, len(items))
	for _, it := range items {
		out = append(out, it.Object.(*Session))
	}
	return out
}

// Close tears down every session.
func (st *Store) Close() {
	for id := range st.items.Items() {
		st.items.Delete(id)
	}
}
