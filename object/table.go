// Package object implements the per-connection object table: id
// allocation within the client/server ranges, installation of live
// objects, lookup, and destruction bookkeeping (delete_id semantics).
// It is shared by both client and server connection halves — only the
// allocator range differs between them.
package object

import "github.com/ghostkellz/wzl-go/internal/wlerr"

const (
	// NullID is never a valid object.
	NullID uint32 = 0
	// DisplayID is preassigned to wl_display on every connection.
	DisplayID uint32 = 1

	// ClientIDMin is the first id a client may allocate for its own
	// new_id requests; DisplayID occupies the id below it.
	ClientIDMin uint32 = 2
	ClientIDMax uint32 = 0xFEFFFFFF

	// ServerIDMin..ServerIDMax is the range the server draws from when it
	// creates objects on a client's behalf (an id space clients never
	// allocate into themselves).
	ServerIDMin uint32 = 0xFF000000
	ServerIDMax uint32 = 0xFFFFFFFF
)

// Object is anything installable in a Table: every protocol object
// (display, registry, surface, buffer, ...) implements this by embedding
// a Base or providing equivalent accessors.
type Object interface {
	ID() uint32
	Interface() string
	Version() uint32
}

// Base is embedded by concrete protocol object types to satisfy Object
// without repeating the bookkeeping fields.
type Base struct {
	id        uint32
	iface     string
	version   uint32
}

func NewBase(id uint32, iface string, version uint32) Base {
	return Base{id: id, iface: iface, version: version}
}

func (b Base) ID() uint32        { return b.id }
func (b Base) Interface() string { return b.iface }
func (b Base) Version() uint32   { return b.version }

// Table owns the id allocator and live-object map for one connection
// side. server selects the server range; a client-side Table always
// uses the client range.
type Table struct {
	server bool
	next   uint32
	free   []uint32 // ids released by Destroy, reused before advancing next
	byID   map[uint32]Object

	// tombstone holds ids that have been Destroy()'d but whose delete_id
	// has not yet round-tripped back to the peer. A message addressed to
	// a tombstoned id is a destroy race, not a protocol violation, and
	// Dispatcher.Handle consults this set to drop it silently instead of
	// raising InvalidObject.
	tombstone map[uint32]struct{}
}

// NewClientTable returns a table that allocates from the client id range,
// with DisplayID preinstalled.
func NewClientTable(display Object) *Table {
	t := &Table{
		next: ClientIDMin,
		byID: map[uint32]Object{DisplayID: display},
	}
	return t
}

// NewServerTable returns a table that allocates from the server id range
// spec reserves for compositor-originated objects (e.g. wl_callback
// created to satisfy a client's new_id argument is still installed by
// the client's own table; this range is for ids the server itself owns
// such as its internal bookkeeping objects, not client-visible protocol
// objects).
func NewServerTable() *Table {
	return &Table{server: true, next: ServerIDMin, byID: map[uint32]Object{}}
}

// Allocate reserves the next available id in this table's range without
// installing anything at it yet (the caller typically needs the id
// before the object it names is fully constructed).
func (t *Table) Allocate() (uint32, error) {
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		return id, nil
	}
	max := ClientIDMax
	if t.server {
		max = ServerIDMax
	}
	if t.next > max {
		return 0, wlerr.New(wlerr.InvalidObject, "object id space exhausted")
	}
	id := t.next
	t.next++
	return id, nil
}

// Install registers obj at its own ID(), failing with ObjectExists if
// that id is already occupied (the new_id-reuse-before-delete_id case
// spec's object lifecycle section calls out as a protocol error).
func (t *Table) Install(obj Object) error {
	if _, exists := t.byID[obj.ID()]; exists {
		return wlerr.NewWithObject(wlerr.ObjectExists, obj.ID(), "object id already in use")
	}
	delete(t.tombstone, obj.ID())
	t.byID[obj.ID()] = obj
	return nil
}

// Lookup resolves id to its live object, returning ok=false for an
// unknown, tombstoned, or already-destroyed id (the InvalidObject
// dispatch case).
func (t *Table) Lookup(id uint32) (Object, bool) {
	obj, ok := t.byID[id]
	return obj, ok
}

// Tombstoned reports whether id names an object that was destroyed but
// may still have messages in flight against it — the peer hasn't seen
// our delete_id yet, so those messages must be dropped silently rather
// than treated as a reference to a live object.
func (t *Table) Tombstoned(id uint32) bool {
	_, ok := t.tombstone[id]
	return ok
}

// Destroy removes id from the table, marks it tombstoned so a message
// racing the destroy is dropped rather than treated as a protocol
// error, and makes it available for reuse by a future Allocate.
// Destroying an id that was never installed is a caller bug, not a
// protocol error, so it is silently a no-op — callers should check
// Lookup first if they need to distinguish this.
func (t *Table) Destroy(id uint32) {
	if _, ok := t.byID[id]; !ok {
		return
	}
	delete(t.byID, id)
	if t.tombstone == nil {
		t.tombstone = make(map[uint32]struct{})
	}
	t.tombstone[id] = struct{}{}
	t.free = append(t.free, id)
}

// Len reports how many objects are currently live, for diagnostics.
func (t *Table) Len() int { return len(t.byID) }
