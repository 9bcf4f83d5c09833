package driver

import (
	"fmt"
	"sync/atomic"
)

// Handle is one holder's reference to a shared Connection.
//
// The connection is closed when the last holder releases. Each Handle
// releases at most once; further Release calls are no-ops.
type Handle struct {
	shared   *shared
	released atomic.Bool
}

type shared struct {
	conn  Connection
	count atomic.Int32
}

// Share wraps conn in its first Handle, with a reference count of 1.
func Share(conn Connection) *Handle {
	s := &shared{conn: conn}
	s.count.Store(1)
	return &Handle{shared: s}
}

// Conn returns the shared connection.
func (h *Handle) Conn() Connection {
	return h.shared.conn
}

// Clone adds a holder and returns its Handle.
// It panics if h was already released.
func (h *Handle) Clone() *Handle {
	if h.released.Load() {
		panic("driver: Clone of released handle")
	}
	h.shared.count.Add(1)
	return &Handle{shared: h.shared}
}

// Release drops this holder. The connection is closed, and its error
// returned, when the count reaches zero.
func (h *Handle) Release() error {
	if !h.released.CompareAndSwap(false, true) {
		return nil
	}
	n := h.shared.count.Add(-1)
	if n < 0 {
		panic("driver: handle refcount dropped below zero")
	}
	if n == 0 {
		return h.shared.conn.Close()
	}
	return nil
}

// Released reports whether this holder has released.
func (h *Handle) Released() bool {
	return h.released.Load()
}

// Refs returns the number of live holders.
func (h *Handle) Refs() int32 {
	return h.shared.count.Load()
}

func (h *Handle) String() string {
	return fmt.Sprintf("Handle(refs=%d)", h.Refs())
}
