// -----------------------------------------------------------------------------
// IPAccess contract (Go, Fabric v3.1.1)
// Purpose: Attribute-hiding access control via inner products over a prime
// Field. Per-user attributes are stored as opaque field values, expanded
// Deterministically into a comparison vector S, and tested against per-object
// Policy vectors P with the zero test <S,P> == 0 (mod p).
// Role in system: the chaincode is the decision state machine; key issuance,
// PK_ABE setup, and vector construction happen off-ledger and cross the
// Boundary as opaque blobs / decimal-string vectors.
// Key dependencies: Hyperledger Fabric contractapi/shim; fentec-project/bn256
// For the default field modulus.
// -----------------------------------------------------------------------------

/*
contract.go — contract type, key layout, events, and shared helpers.

Every numeric vector element crosses the contract boundary as a decimal
string (arbitrary precision), never as a native integer. Every stored element
is the canonical residue in [0, p).
*/
package main

import (
	"encoding/json"
	"time"

	"github.com/hyperledger/fabric-contract-api-go/v2/contractapi"

	"github.com/yourorg/ipaccess_cc/field"
)

/* Keys & constants (single namespace for this chaincode) */

const (
	// Singleton world-state key for system parameters.
	keyParams = "PARAMS"

	// Composite-key namespaces. Each namespace has exactly one writer
	// (see the owning file), so no two operations contend on a key.
	nsRegistry   = "registry"    // (registry, authorityID)        → AuthorityKeyRecord
	nsPolicy     = "data"        // (data, objectID)               → PolicyVector
	nsAttribute  = "attr"        // (attr, userID, category)       → HiddenAttribute
	nsUserVector = "uservec"     // (uservec, userID)              → UserVector
	nsAccess     = "access"      // (access, objectID, userID, tx) → AccessRecord (append-only)
	nsAccessLast = "access_last" // (access_last, objectID, userID)→ latest AccessRecord copy
)

const (
	eventSystemInitialized      = "SystemInitialized"
	eventAuthorityKeyRegistered = "AuthorityKeyRegistered"
	eventPolicyVectorSet        = "PolicyVectorSet"
	eventHiddenAttributeStored  = "HiddenAttributeStored"
	eventUserVectorComputed     = "UserVectorComputed"
	eventAccessDecided          = "AccessDecided"
)

/* Types & small data models */

// IPAccessContract implements the attribute-hiding access-control engine.
//
// Responsibilities:
// - Persist system parameters and the bounded authority-key registry.
// - Store per-object policy vectors (canonical residues) and per-user hidden
//   attributes (opaque field values).
// - Derive comparison vectors and evaluate the inner-product zero test,
//   committing an immutable audit record per decision.
type IPAccessContract struct {
	contractapi.Contract

	// fld carries the field modulus. It is injected at construction so no
	// hidden package-level modulus exists; tests run alternate primes.
	fld *field.Field
}

// NewIPAccessContract returns a contract over the default bn256 group order.
func NewIPAccessContract() *IPAccessContract {
	return &IPAccessContract{fld: field.Default()}
}

// NewIPAccessContractWithField returns a contract over an explicit field.
// All participants (and the off-ledger vector producers) must share it.
func NewIPAccessContractWithField(f *field.Field) *IPAccessContract {
	return &IPAccessContract{fld: f}
}

func (c *IPAccessContract) field() *field.Field {
	if c.fld == nil {
		c.fld = field.Default()
	}
	return c.fld
}

// ShamirConfig is the secret-sharing configuration persisted with the system
// parameters. The shares themselves never touch the ledger.
type ShamirConfig struct {
	T int `json:"t"` // reconstruction threshold
	N int `json:"n"` // total shares
}

// SystemParams is the bootstrap singleton: the PK_ABE descriptor and the
// Shamir configuration, both opaque to the decision logic.
type SystemParams struct {
	PKABE  string       `json:"pkABE"` // opaque blob, persisted verbatim
	Shamir ShamirConfig `json:"shamir"`
}

// AuthorityKeyRecord is one entry of the attribute-authority registry.
// Registration is an upsert keyed by AuthorityID, so the registry size is
// bounded by the number of distinct authorities, not by call volume.
type AuthorityKeyRecord struct {
	AuthorityID string `json:"authorityID"`
	PubKey      string `json:"pubKey"`    // opaque blob
	CreatedAt   string `json:"createdAt"` // RFC3339, from the tx timestamp
}

// PolicyVector is the object-side hidden policy: canonical residues plus the
// ciphertext fragments the off-ledger scheme attaches to the object.
type PolicyVector struct {
	ObjectID  string   `json:"objectID"`
	OwnerID   string   `json:"ownerID"`
	Vector    []string `json:"vector"` // decimal residues in [0, p)
	Fragments []string `json:"fragments"`
}

// HiddenAttribute is one opaque per-user, per-category attribute record.
// CH is the hidden field value entering the comparison vector; R is the
// issuing blind. Both are stored verbatim.
type HiddenAttribute struct {
	UserID      string `json:"userID"`
	Category    string `json:"category"`
	CH          string `json:"ch"` // decimal field value
	R           string `json:"r"`  // opaque blind
	AuthorityID string `json:"authorityID"`
}

// UserVector is the cached comparison vector S derived from the user's
// current attribute set. It is a derived projection: always recomputable
// from the HiddenAttribute records, never an independent source of truth.
type UserVector struct {
	UserID string   `json:"userID"`
	S      []string `json:"s"` // decimal residues in [0, p)
}

// AccessRecord is the immutable audit entry for one decision attempt. The
// same content is written twice: appended under the txid-qualified key and
// copied to the latest-decision pointer.
type AccessRecord struct {
	ObjectID     string `json:"objectID"`
	RequesterID  string `json:"requesterID"`
	Allowed      bool   `json:"allowed"`
	InnerProduct string `json:"innerProduct"` // decimal residue
	TxID         string `json:"txID"`
	Timestamp    string `json:"timestamp"` // RFC3339, from the tx timestamp
}

/* Small helpers */

// nowRFC3339 returns the transaction timestamp as an RFC3339 UTC string.
// The value is supplied by the ordering service and identical on every peer
// replaying the transaction.
func nowRFC3339(ctx contractapi.TransactionContextInterface) string {
	ts, _ := ctx.GetStub().GetTxTimestamp()
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC().Format(time.RFC3339)
}

// mustJSON marshals v and ignores errors (used for events and small writes).
func mustJSON(v any) []byte { b, _ := json.Marshal(v); return b }

/* Health */

// Ping is a simple health check used by deployment tooling and test harnesses.
func (c *IPAccessContract) Ping(ctx contractapi.TransactionContextInterface) (string, error) {
	return "OK:" + ctx.GetStub().GetTxID(), nil
}
