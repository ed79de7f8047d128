/*
policy.go — per-object policy vectors.

A policy vector is constructed off-ledger by whatever encodes the hidden
policy; the contract normalizes every element into [0, p) and stores the
canonical residues. Which coordinate corresponds to which attribute-category
pair is a trust boundary: the contract can verify dimensions only, so a
wrongly constructed vector yields internally consistent but wrong decisions.
*/
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperledger/fabric-contract-api-go/v2/contractapi"

	"github.com/yourorg/ipaccess_cc/field"
)

// SetPolicyVector normalizes rawVectorJSON (a JSON array of decimal strings,
// arbitrary precision, negatives allowed) and stores the canonical residues
// together with the scheme's three ciphertext fragments. Overwrites any
// prior vector for the object.
func (c *IPAccessContract) SetPolicyVector(ctx contractapi.TransactionContextInterface,
	objectID, ownerID, rawVectorJSON string, frag1, frag2, frag3 string) (*PolicyVector, error) {

	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		return nil, fmt.Errorf("objectID empty")
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("ownerID empty")
	}

	var raw []string
	if err := json.Unmarshal([]byte(rawVectorJSON), &raw); err != nil {
		return nil, fmt.Errorf("parse policy vector: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("policy vector empty")
	}
	elems, err := field.ParseVector(raw)
	if err != nil {
		return nil, fmt.Errorf("policy vector: %w", err)
	}
	f := c.field()
	for i, e := range elems {
		elems[i] = f.Normalize(e)
	}

	key, err := compositeKey(ctx, nsPolicy, objectID)
	if err != nil {
		return nil, err
	}
	pv := &PolicyVector{
		ObjectID:  objectID,
		OwnerID:   ownerID,
		Vector:    field.FormatVector(elems),
		Fragments: []string{frag1, frag2, frag3},
	}
	if err := putJSON(ctx, key, pv); err != nil {
		return nil, err
	}

	_ = ctx.GetStub().SetEvent(eventPolicyVectorSet, mustJSON(map[string]any{
		"objectID": objectID, "ownerID": ownerID, "dim": len(pv.Vector),
		"time": nowRFC3339(ctx),
	}))
	return pv, nil
}

// GetPolicyVector returns the stored policy vector for an object.
func (c *IPAccessContract) GetPolicyVector(ctx contractapi.TransactionContextInterface, objectID string) (*PolicyVector, error) {
	key, err := compositeKey(ctx, nsPolicy, objectID)
	if err != nil {
		return nil, err
	}
	var pv PolicyVector
	found, err := getJSON(ctx, key, &pv)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("policy vector for object %s: %w", objectID, ErrNotFound)
	}
	return &pv, nil
}
