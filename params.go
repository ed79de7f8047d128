/*
params.go — system parameters and the authority-key registry.

SystemParams is written once at bootstrap; repeat calls overwrite the
singleton, there is no write-once guard. The registry is an upsert
keyed by authority id: its size is bounded by the number of distinct
authorities ever registered, independent of call volume.
*/
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperledger/fabric-contract-api-go/v2/contractapi"
)

// InitializeSystem stores the PK_ABE descriptor and the Shamir configuration.
// Both are opaque to the decision logic; the contract persists and returns
// them, it never interprets the descriptor. shamirJSON is {"t":..,"n":..}.
func (c *IPAccessContract) InitializeSystem(ctx contractapi.TransactionContextInterface, pkABE string, shamirJSON string) (*SystemParams, error) {
	if strings.TrimSpace(pkABE) == "" {
		return nil, fmt.Errorf("pkABE empty")
	}
	var sh ShamirConfig
	if err := json.Unmarshal([]byte(shamirJSON), &sh); err != nil {
		return nil, fmt.Errorf("bad shamir json: %w", err)
	}
	if sh.T < 1 || sh.T > sh.N {
		return nil, fmt.Errorf("shamir config requires 1 <= t <= n, got t=%d n=%d", sh.T, sh.N)
	}

	sp := &SystemParams{PKABE: pkABE, Shamir: sh}
	if err := putJSON(ctx, keyParams, sp); err != nil {
		return nil, err
	}

	_ = ctx.GetStub().SetEvent(eventSystemInitialized, mustJSON(map[string]any{
		"t": sh.T, "n": sh.N, "time": nowRFC3339(ctx),
	}))
	return sp, nil
}

// ReadSystemParams returns the stored system parameters.
func (c *IPAccessContract) ReadSystemParams(ctx contractapi.TransactionContextInterface) (*SystemParams, error) {
	var sp SystemParams
	found, err := getJSON(ctx, keyParams, &sp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotInitialized
	}
	return &sp, nil
}

// RegisterAuthorityKey upserts the public key of an attribute authority.
// Re-registering an id overwrites its record in place; the registry never
// grows per call.
func (c *IPAccessContract) RegisterAuthorityKey(ctx contractapi.TransactionContextInterface, authorityID string, keyBlob string) (*AuthorityKeyRecord, error) {
	authorityID = strings.TrimSpace(authorityID)
	if authorityID == "" {
		return nil, fmt.Errorf("authorityID empty")
	}
	if keyBlob == "" {
		return nil, fmt.Errorf("keyBlob empty")
	}

	key, err := compositeKey(ctx, nsRegistry, authorityID)
	if err != nil {
		return nil, err
	}
	rec := &AuthorityKeyRecord{
		AuthorityID: authorityID,
		PubKey:      keyBlob,
		CreatedAt:   nowRFC3339(ctx),
	}
	if err := putJSON(ctx, key, rec); err != nil {
		return nil, err
	}

	_ = ctx.GetStub().SetEvent(eventAuthorityKeyRegistered, mustJSON(map[string]string{
		"authorityID": authorityID, "time": rec.CreatedAt,
	}))
	return rec, nil
}

// ListAuthorityKeys returns the full registry in ledger scan order (the scan
// order over encoded keys, not insertion order).
func (c *IPAccessContract) ListAuthorityKeys(ctx contractapi.TransactionContextInterface) ([]AuthorityKeyRecord, error) {
	out := []AuthorityKeyRecord{}
	err := scanPrefix(ctx, nsRegistry, nil, func(key string, val []byte) error {
		var rec AuthorityKeyRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("decode registry entry %q: %w", key, err)
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
