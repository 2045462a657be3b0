package server

import (
	"testing"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
)

type recordingSubscriber struct {
	added   []Global
	removed []uint32
}

func (r *recordingSubscriber) GlobalAdded(name uint32, iface string, version uint32) {
	r.added = append(r.added, Global{Name: name, Interface: iface, Version: version})
}

func (r *recordingSubscriber) GlobalRemoved(name uint32) {
	r.removed = append(r.removed, name)
}

func TestSubscribeReturnsCurrentSnapshotSortedByName(t *testing.T) {
	reg := NewRegistry()
	reg.Advertise("wl_shm", 1)
	reg.Advertise("wl_compositor", 6)

	snapshot := reg.Subscribe(1, &recordingSubscriber{})
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(snapshot))
	}
	if snapshot[0].Name > snapshot[1].Name {
		t.Fatal("snapshot must be sorted by name")
	}
}

func TestAdvertiseNotifiesExistingSubscribers(t *testing.T) {
	reg := NewRegistry()
	sub := &recordingSubscriber{}
	reg.Subscribe(1, sub)
	reg.Advertise("wl_seat", 9)
	if len(sub.added) != 1 || sub.added[0].Interface != "wl_seat" {
		t.Fatalf("subscriber was not notified of new global: %+v", sub.added)
	}
}

func TestRevokeNotifiesSubscribersAndBlocksFutureResolve(t *testing.T) {
	reg := NewRegistry()
	sub := &recordingSubscriber{}
	name := reg.Advertise("wl_output", 4)
	reg.Subscribe(1, sub)
	reg.Revoke(name)
	if len(sub.removed) != 1 || sub.removed[0] != name {
		t.Fatalf("subscriber was not notified of removal: %+v", sub.removed)
	}
	if _, err := reg.Resolve(name); !wlerr.Is(err, wlerr.NoInterface) {
		t.Fatalf("expected NoInterface resolving a revoked global, got %v", err)
	}
}

func TestResolveUnknownNameIsNoInterface(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Resolve(999); !wlerr.Is(err, wlerr.NoInterface) {
		t.Fatalf("expected NoInterface, got %v", err)
	}
}

func TestNegotiateVersionNeverUpgrades(t *testing.T) {
	if v := NegotiateVersion(3, 6); v != 3 {
		t.Fatalf("expected client-requested version 3 to stand, got %d", v)
	}
	if v := NegotiateVersion(9, 6); v != 6 {
		t.Fatalf("expected request above server support to cap at 6, got %d", v)
	}
}
