// Params_test.go
//
// Purpose: Tests for the bootstrap path: system-parameter lifecycle
// (initialize, read-before-write, overwrite idempotence, shamir bounds) and
// The authority-key registry (upsert boundedness, listing order).
// Role: Exercises params.go via the in-memory harness (no real Fabric).

package main

import (
	"testing"
)

// TestParams_ReadBeforeInitialize verifies: Read Before Initialize fails typed.
func TestParams_ReadBeforeInitialize(t *testing.T) {
	h := newHarness(t)
	defer h.ctrl.Finish()

	_, err := h.cc.ReadSystemParams(h.ctx)
	requireErrIs(t, err, ErrNotInitialized)
}

// TestParams_InitializeRoundTrip verifies: Initialize Round Trip.
func TestParams_InitializeRoundTrip(t *testing.T) {
	h := newHarness(t)
	defer h.ctrl.Finish()

	sp, err := h.cc.InitializeSystem(h.ctx, testPKABE, testShamirOK)
	requireNoErr(t, err)
	if sp.PKABE != testPKABE || sp.Shamir.T != 2 || sp.Shamir.N != 3 {
		t.Fatalf("unexpected stored params: %+v", sp)
	}

	back, err := h.cc.ReadSystemParams(h.ctx)
	requireNoErr(t, err)
	if back.PKABE != testPKABE || back.Shamir != sp.Shamir {
		t.Fatalf("read-back mismatch: %+v vs %+v", back, sp)
	}
}

// TestParams_InitializeOverwriteIdempotent verifies: repeat initialization
// overwrites the singleton; there is no write-once guard.
func TestParams_InitializeOverwriteIdempotent(t *testing.T) {
	h := newHarness(t)
	defer h.ctrl.Finish()

	requireNoErr(t, h.initSystem())
	_, err := h.cc.InitializeSystem(h.ctx, "pkabe-v2", `{"t":3,"n":5}`)
	requireNoErr(t, err)

	back, err := h.cc.ReadSystemParams(h.ctx)
	requireNoErr(t, err)
	if back.PKABE != "pkabe-v2" || back.Shamir.T != 3 || back.Shamir.N != 5 {
		t.Fatalf("overwrite not applied: %+v", back)
	}
}

// TestParams_InitializeRejectsBadShamir verifies: t must satisfy 1 <= t <= n.
func TestParams_InitializeRejectsBadShamir(t *testing.T) {
	h := newHarness(t)
	defer h.ctrl.Finish()

	for _, bad := range []string{`{"t":4,"n":3}`, `{"t":0,"n":3}`, `{"t":-1,"n":-1}`, `not json`} {
		_, err := h.cc.InitializeSystem(h.ctx, testPKABE, bad)
		if err == nil {
			t.Fatalf("shamir %q accepted", bad)
		}
	}
	// Nothing was persisted by the rejected calls.
	_, err := h.cc.ReadSystemParams(h.ctx)
	requireErrIs(t, err, ErrNotInitialized)
}

// TestRegistry_UpsertBounded verifies: re-registering an authority overwrites
// in place — the registry holds one record per distinct id regardless of
// call volume.
func TestRegistry_UpsertBounded(t *testing.T) {
	h := newHarness(t)
	defer h.ctrl.Finish()

	_, err := h.cc.RegisterAuthorityKey(h.ctx, testAuthority, "key-v1")
	requireNoErr(t, err)
	_, err = h.cc.RegisterAuthorityKey(h.ctx, testAuthority, "key-v2")
	requireNoErr(t, err)
	_, err = h.cc.RegisterAuthorityKey(h.ctx, "aaen-02", "key-other")
	requireNoErr(t, err)

	recs, err := h.cc.ListAuthorityKeys(h.ctx)
	requireNoErr(t, err)
	if len(recs) != 2 {
		t.Fatalf("registry size %d, want 2", len(recs))
	}
	for _, r := range recs {
		if r.AuthorityID == testAuthority && r.PubKey != "key-v2" {
			t.Fatalf("upsert did not overwrite: %+v", r)
		}
	}
}

// TestRegistry_ListScanOrder verifies: listing returns ledger scan order
// (lexicographic over encoded keys), not insertion order.
func TestRegistry_ListScanOrder(t *testing.T) {
	h := newHarness(t)
	defer h.ctrl.Finish()

	for _, id := range []string{"aaen-09", "aaen-01", "aaen-05"} {
		_, err := h.cc.RegisterAuthorityKey(h.ctx, id, "key-"+id)
		requireNoErr(t, err)
	}

	recs, err := h.cc.ListAuthorityKeys(h.ctx)
	requireNoErr(t, err)
	want := []string{"aaen-01", "aaen-05", "aaen-09"}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i, id := range want {
		if recs[i].AuthorityID != id {
			t.Fatalf("position %d: got %s, want %s", i, recs[i].AuthorityID, id)
		}
	}
}

// TestRegistry_RejectsEmptyInputs verifies: blank ids and empty blobs fail fast.
func TestRegistry_RejectsEmptyInputs(t *testing.T) {
	h := newHarness(t)
	defer h.ctrl.Finish()

	_, err := h.cc.RegisterAuthorityKey(h.ctx, "  ", "key")
	requireErrContains(t, err, "authorityID")
	_, err = h.cc.RegisterAuthorityKey(h.ctx, "aaen-01", "")
	requireErrContains(t, err, "keyBlob")
}
