/*
ledger.go — thin typed gateway over the chaincode stub.

All reads and writes of the contract go through these helpers: composite keys
use the shim's canonical encoding (the separator cannot appear inside a key
part), values are JSON, and prefix scans always exhaust and close their
iterator. Scan order is the ledger's lexicographic order over the encoded
key; callers that need a semantic order (e.g. category order) re-sort
explicitly and never rely on scan order.
*/
package main

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/v2/contractapi"
)

// compositeKey encodes (namespace, parts...) into the canonical ledger key.
func compositeKey(ctx contractapi.TransactionContextInterface, ns string, parts ...string) (string, error) {
	key, err := ctx.GetStub().CreateCompositeKey(ns, parts)
	if err != nil {
		return "", fmt.Errorf("composite key %s%v: %w", ns, parts, err)
	}
	return key, nil
}

// getJSON reads key into v. The second return is false when the key is
// absent; absence is a normal condition the caller maps to its own taxonomy.
func getJSON(ctx contractapi.TransactionContextInterface, key string, v any) (bool, error) {
	raw, err := ctx.GetStub().GetState(key)
	if err != nil {
		return false, fmt.Errorf("get %q: %w", key, err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// putJSON marshals v once and writes it under key.
func putJSON(ctx contractapi.TransactionContextInterface, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := ctx.GetStub().PutState(key, b); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// hasKey reports whether key exists without decoding its value.
func hasKey(ctx contractapi.TransactionContextInterface, key string) (bool, error) {
	raw, err := ctx.GetStub().GetState(key)
	if err != nil {
		return false, fmt.Errorf("get %q: %w", key, err)
	}
	return raw != nil, nil
}

// scanPrefix visits every record under (ns, parts...) in ledger scan order.
// fn receives the full encoded key and raw value; a non-nil return aborts
// the scan. The iterator is closed on every path.
func scanPrefix(ctx contractapi.TransactionContextInterface, ns string, parts []string, fn func(key string, val []byte) error) error {
	it, err := ctx.GetStub().GetStateByPartialCompositeKey(ns, parts)
	if err != nil {
		return fmt.Errorf("scan %s%v: %w", ns, parts, err)
	}
	defer it.Close()

	for it.HasNext() {
		kv, err := it.Next()
		if err != nil {
			return fmt.Errorf("scan %s%v next: %w", ns, parts, err)
		}
		if err := fn(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return nil
}
