// Harness_test.go
//
// Purpose: Minimal, deterministic test harness for the IPAccess chaincode.
// Role: Provides an in-memory world-state "ledger" with composite-key
// Emulation, a mocked Fabric ChaincodeStub (via gomock), and focused helpers
// To drive the contract without real peers, orderers, or crypto material.
// Key deps:
// - Hyperledger Fabric Go SDKs: chaincode-go/shim, contractapi, protos (queryresult)
// - gomock for stub expectations and return paths
// - Google protobuf/timestamppb for stable TxTimestamp values
// - Local fakes package: github.com/yourorg/ipaccess_cc/fakes (mock stub interface)
// Notes:
// - The harness makes defensive copies of byte slices to avoid aliasing between
// The test code and the "ledger" maps.
// - Composite keys follow the shim's canonical encoding (U+0000 separators) so
// Prefix scans behave like the real ledger.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	testing "testing"

	queryresult "github.com/hyperledger/fabric-protos-go-apiv2/ledger/queryresult"

	"github.com/golang/mock/gomock"
	"github.com/hyperledger/fabric-chaincode-go/v2/pkg/cid"
	"github.com/hyperledger/fabric-chaincode-go/v2/shim"
	contractapi "github.com/hyperledger/fabric-contract-api-go/v2/contractapi"
	"google.golang.org/protobuf/types/known/timestamppb"

	f "github.com/yourorg/ipaccess_cc/fakes"
	"github.com/yourorg/ipaccess_cc/field"
)

const (
	testObject    = "obj-001"
	testUser      = "user-001"
	testOwner     = "owner-001"
	testAuthority = "aaen-01"
	testPKABE     = "pkabe-blob-base64"
	testShamirOK  = `{"t":2,"n":3}`
	testTxTime    = int64(1763173800)
)

// testPrime is a small prime injected where assertions are easier to state
// over tiny residues. The transform and decision paths are modulus-agnostic.
var testPrime = big.NewInt(97)

/* in-memory WS harness */

// MemWorld is a tiny in-memory ledger used by the mock stub.
// It tracks world state (ws), emitted events, and op counts.
type memWorld struct {
	ws     map[string][]byte
	events []struct {
		name    string
		payload []byte
	}
	opsCounts struct {
		getState, putState int
		setEvent           int
	}
}

// NewMemWorld allocates an empty memWorld.
func newMemWorld() *memWorld {
	return &memWorld{ws: make(map[string][]byte)}
}

// GetState simulates GetState on the in-mem world state.
// Copies the value before returning to avoid aliasing in tests.
func (m *memWorld) getState(key string) ([]byte, error) {
	m.opsCounts.getState++
	if v, ok := m.ws[key]; ok {
		return append([]byte(nil), v...), nil // Copy for safety
	}
	return nil, nil
}

// PutState simulates PutState on the in-mem world state.
func (m *memWorld) putState(key string, val []byte) error {
	m.opsCounts.putState++
	m.ws[key] = append([]byte(nil), val...) // Copy for safety
	return nil
}

// SetEvent records a chaincode event into the in-mem log.
func (m *memWorld) setEvent(name string, payload []byte) error {
	m.opsCounts.setEvent++
	m.events = append(m.events, struct {
		name    string
		payload []byte
	}{name: name, payload: append([]byte(nil), payload...)}) // Copy for safety
	return nil
}

// compositeSep matches the shim's minUnicodeRuneValue separator. It cannot
// appear inside a key part, which is what makes prefix scans unambiguous.
const compositeSep = string(rune(0))

// makeCompositeKey mirrors shim.CreateCompositeKey's canonical encoding.
func makeCompositeKey(objectType string, attrs []string) string {
	ck := compositeSep + objectType + compositeSep
	for _, a := range attrs {
		ck += a + compositeSep
	}
	return ck
}

// MemIter is a simple iterator over a pre-materialized slice of KVs.
// It implements the subset of shim.StateQueryIteratorInterface used by tests.
type memIter struct {
	keys []string
	vals [][]byte
	i    int
}

// HasNext tells whether another KV is available.
func (it *memIter) HasNext() bool { return it.i < len(it.keys) }

// Next returns the current KV and advances the iterator.
func (it *memIter) Next() (*queryresult.KV, error) {
	if !it.HasNext() {
		return nil, fmt.Errorf("iterator exhausted")
	}
	kv := &queryresult.KV{Key: it.keys[it.i], Value: it.vals[it.i]}
	it.i++
	return kv, nil
}

// Close is a no-op to satisfy the interface.
func (it *memIter) Close() error { return nil }

// iterComposite materializes a partial-composite-key scan: every key under
// the encoded (objectType, parts...) prefix, in sorted (ledger) order.
func (m *memWorld) iterComposite(objectType string, parts []string) *memIter {
	prefix := makeCompositeKey(objectType, parts)
	var keys []string
	for k := range m.ws {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys) // Keep scans stable across runs
	vals := make([][]byte, len(keys))
	for i, k := range keys {
		vals[i] = append([]byte(nil), m.ws[k]...) // Copy for safety
	}
	return &memIter{keys: keys, vals: vals}
}

/* tx context w/ real stub (no gomock ctx) */

// SimpleTxCtx adapts a raw shim.ChaincodeStubInterface to a contractapi
// TransactionContext. Tests only need GetStub.
type simpleTxCtx struct{ s shim.ChaincodeStubInterface }

// GetStub returns the underlying ChaincodeStubInterface.
func (c *simpleTxCtx) GetStub() shim.ChaincodeStubInterface { return c.s }

// GetClientIdentity is not used by the tests; it returns nil to satisfy the interface.
func (c *simpleTxCtx) GetClientIdentity() cid.ClientIdentity { return nil }

/* test harness */

// TestHarness bundles the mock controller, stub, in-mem ledger, and the
// contract under test. txID is mutable so tests can simulate distinct
// transactions against the same world.
type testHarness struct {
	ctrl *gomock.Controller
	ctx  contractapi.TransactionContextInterface
	stub *f.MockChaincodeStubInterface
	mem  *memWorld
	cc   *IPAccessContract
	t    *testing.T
	txID string
}

// newHarness builds a mocked Fabric transaction context around the default
// (bn256 order) field.
func newHarness(t *testing.T) *testHarness {
	return newHarnessWithField(t, field.Default())
}

// newHarnessWithField builds the harness around an injected field, wiring
// world state, composite keys, tx identity, and events to in-memory state.
func newHarnessWithField(t *testing.T, fld *field.Field) *testHarness {
	t.Helper()

	ctrl := gomock.NewController(t)
	stub := f.NewMockChaincodeStubInterface(ctrl)
	txctx := &simpleTxCtx{s: stub}
	mem := newMemWorld()

	h := &testHarness{
		ctrl: ctrl, ctx: txctx, stub: stub, mem: mem,
		cc: NewIPAccessContractWithField(fld), t: t, txID: "tx-0001",
	}

	// Return the current harness txID; tests may override it per case.
	stub.EXPECT().GetTxID().AnyTimes().DoAndReturn(func() string { return h.txID })

	// Stable deterministic tx timestamp shared by all operations.
	stub.EXPECT().
		GetTxTimestamp().
		AnyTimes().
		Return(&timestamppb.Timestamp{Seconds: testTxTime}, nil)

	// Stable channel ID used by the contract.
	stub.EXPECT().GetChannelID().AnyTimes().Return("accesschan-01")

	// Wire world state to the in-mem map.
	stub.EXPECT().GetState(gomock.Any()).AnyTimes().DoAndReturn(mem.getState)
	stub.EXPECT().PutState(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(mem.putState)

	// Canonical composite-key encoding, matching the shim.
	stub.EXPECT().
		CreateCompositeKey(gomock.Any(), gomock.Any()).
		AnyTimes().
		DoAndReturn(func(objectType string, attrs []string) (string, error) {
			return makeCompositeKey(objectType, attrs), nil
		})

	// Partial-composite-key scans return a slice-backed iterator.
	stub.EXPECT().
		GetStateByPartialCompositeKey(gomock.Any(), gomock.Any()).
		AnyTimes().
		DoAndReturn(func(objectType string, parts []string) (shim.StateQueryIteratorInterface, error) {
			return mem.iterComposite(objectType, parts), nil
		})

	// Capture events into the in-mem log for assertions.
	stub.EXPECT().SetEvent(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(mem.setEvent)

	return h
}

/* small helpers */

// SetTxID overrides the txID seen by the contract for the next operations.
func (h *testHarness) setTxID(id string) { h.txID = id }

// InitSystem writes the bootstrap parameters through the contract API.
func (h *testHarness) initSystem() error {
	_, err := h.cc.InitializeSystem(h.ctx, testPKABE, testShamirOK)
	return err
}

// SetPolicy stores a policy vector for the test object.
// Params: elems — decimal-string elements (raw, contract normalizes).
func (h *testHarness) setPolicy(objectID string, elems []string) (*PolicyVector, error) {
	return h.cc.SetPolicyVector(h.ctx, objectID, testOwner, vecJSON(elems), "ct1", "ct2", "ct3")
}

// SetAttr upserts one hidden attribute for the test user.
func (h *testHarness) setAttr(userID, category, ch string) error {
	_, err := h.cc.SetHiddenAttribute(h.ctx, userID, category, ch, "r-"+category, testAuthority)
	return err
}

// accessRecordCount counts append-only audit entries in raw world state.
func (h *testHarness) accessRecordCount() int {
	n := 0
	prefix := makeCompositeKey(nsAccess, nil)
	for k := range h.mem.ws {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

// VecJSON renders decimal-string elements as the JSON array the contract accepts.
func vecJSON(elems []string) string {
	b, _ := json.Marshal(elems)
	return string(b)
}

// RequireNoErr fails the test immediately if err != nil, labeling it unexpected.
func requireNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// RequireErrIs asserts that err wraps the given sentinel from the error taxonomy.
func requireErrIs(t *testing.T, err, sentinel error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", sentinel)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("error %q does not wrap %v", err.Error(), sentinel)
	}
}

// RequireErrContains asserts that err is non-nil and its message contains wantSubstr (case-insensitive).
func requireErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", wantSubstr)
	}
	if wantSubstr != "" && !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(wantSubstr)) {
		t.Fatalf("error %q does not contain %q", err.Error(), wantSubstr)
	}
}
