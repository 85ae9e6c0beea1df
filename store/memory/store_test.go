package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/medchain/medledger"
	"github.com/medchain/medledger/identity"
	"github.com/medchain/medledger/state"
)

func TestLoadEmpty(t *testing.T) {
	s := New()
	defer s.Close()

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Users) != 0 || len(snap.Transactions) != 0 {
		t.Errorf("expected empty snapshot, got %d users, %d transactions",
			len(snap.Users), len(snap.Transactions))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	snap := state.New()
	snap.Users["0xabc"] = &identity.User{Address: "0xabc", Role: identity.RolePatient, Registered: true}
	snap.Beneficiaries["0xabc"] = "0xdef"

	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Users["0xabc"].IsPatient() {
		t.Error("expected saved patient to survive round trip")
	}
	if loaded.Beneficiaries["0xabc"] != "0xdef" {
		t.Errorf("beneficiary = %q, want %q", loaded.Beneficiaries["0xabc"], "0xdef")
	}
}

func TestSaveIsolatesCallerSnapshot(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	snap := state.New()
	snap.Users["0xabc"] = &identity.User{Address: "0xabc", Role: identity.RolePatient, Registered: true}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Mutating the caller's snapshot after Save must not leak into the store.
	snap.Users["0xabc"].Role = identity.RoleDoctor
	delete(snap.Users, "0xabc")

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if u := loaded.Users["0xabc"]; u == nil || u.Role != identity.RolePatient {
		t.Errorf("stored snapshot mutated through caller reference: %+v", u)
	}
}

func TestClosed(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := s.Load(ctx); !errors.Is(err, medledger.ErrStoreClosed) {
		t.Errorf("Load() after close error = %v, want ErrStoreClosed", err)
	}
	if err := s.Save(ctx, state.New()); !errors.Is(err, medledger.ErrStoreClosed) {
		t.Errorf("Save() after close error = %v, want ErrStoreClosed", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, medledger.ErrStoreClosed) {
		t.Errorf("Ping() after close error = %v, want ErrStoreClosed", err)
	}
}
