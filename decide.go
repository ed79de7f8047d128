/*
decide.go — the access-decision state machine.

Two steps per decision, no persisted intermediate state: gather S and P,
then compute the verdict and commit the audit pair. A failure before the
record step writes nothing; both record writes carry the same marshaled
bytes, so no value is re-derived between them.
*/
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/fabric-contract-api-go/v2/contractapi"

	"github.com/yourorg/ipaccess_cc/field"
)

// Decide evaluates the zero test for (objectID, requesterID) and commits the
// audit record. Verdict: allowed iff <S,P> == 0 (mod p). The vector
// construction makes the inner product vanish exactly when the requester's
// hidden attributes satisfy the object's hidden policy.
//
// Failure modes: ErrNotFound when either vector is absent (an empty
// attribute set counts as an absent comparison vector), ErrDimensionMismatch
// when |S| != |P| (nothing is written), ErrDuplicateKey when the transaction
// id already has an access record (replay).
func (c *IPAccessContract) Decide(ctx contractapi.TransactionContextInterface, objectID, requesterID string) (*AccessRecord, error) {
	objectID = strings.TrimSpace(objectID)
	requesterID = strings.TrimSpace(requesterID)
	if objectID == "" || requesterID == "" {
		return nil, fmt.Errorf("objectID/requesterID empty")
	}

	// Gather. The cached comparison vector is a derived projection; when
	// absent it is recomputed from the attribute records.
	uv, err := c.cachedOrComputedUserVector(ctx, requesterID)
	if err != nil {
		if errors.Is(err, ErrNoAttributes) {
			return nil, fmt.Errorf("comparison vector for user %s: %w", requesterID, ErrNotFound)
		}
		return nil, err
	}
	pv, err := c.GetPolicyVector(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if len(uv.S) != len(pv.Vector) {
		return nil, fmt.Errorf("|S|=%d |P|=%d for object %s, user %s: %w",
			len(uv.S), len(pv.Vector), objectID, requesterID, ErrDimensionMismatch)
	}

	// Decide.
	s, err := field.ParseVector(uv.S)
	if err != nil {
		return nil, fmt.Errorf("stored comparison vector: %w", err)
	}
	p, err := field.ParseVector(pv.Vector)
	if err != nil {
		return nil, fmt.Errorf("stored policy vector: %w", err)
	}
	ip, err := c.field().InnerProduct(s, p)
	if err != nil {
		return nil, fmt.Errorf("inner product: %w", err)
	}

	// Record. One marshal, two writes with identical content.
	txID := ctx.GetStub().GetTxID()
	rec := &AccessRecord{
		ObjectID:     objectID,
		RequesterID:  requesterID,
		Allowed:      ip.Sign() == 0,
		InnerProduct: ip.Text(10),
		TxID:         txID,
		Timestamp:    nowRFC3339(ctx),
	}

	recKey, err := compositeKey(ctx, nsAccess, objectID, requesterID, txID)
	if err != nil {
		return nil, err
	}
	exists, err := hasKey(ctx, recKey)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("access record for tx %s: %w", txID, ErrDuplicateKey)
	}
	lastKey, err := compositeKey(ctx, nsAccessLast, objectID, requesterID)
	if err != nil {
		return nil, err
	}

	b := mustJSON(rec)
	if err := ctx.GetStub().PutState(recKey, b); err != nil {
		return nil, fmt.Errorf("append access record: %w", err)
	}
	if err := ctx.GetStub().PutState(lastKey, b); err != nil {
		return nil, fmt.Errorf("update latest pointer: %w", err)
	}

	// The event carries the full record so listeners need no follow-up query.
	_ = ctx.GetStub().SetEvent(eventAccessDecided, b)
	return rec, nil
}

// ListAccessRecords returns the full audit trail for (objectID, userID) in
// ledger scan order. Entries are append-only and never rewritten.
func (c *IPAccessContract) ListAccessRecords(ctx contractapi.TransactionContextInterface, objectID, userID string) ([]AccessRecord, error) {
	out := []AccessRecord{}
	err := scanPrefix(ctx, nsAccess, []string{objectID, userID}, func(key string, val []byte) error {
		var rec AccessRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("decode access record %q: %w", key, err)
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetLatestAccess returns the most recent decision for (objectID, userID).
// The pointer is overwritten on every decision for the pair; the append-only
// trail under the access namespace keeps the full history.
func (c *IPAccessContract) GetLatestAccess(ctx contractapi.TransactionContextInterface, objectID, userID string) (*AccessRecord, error) {
	key, err := compositeKey(ctx, nsAccessLast, objectID, userID)
	if err != nil {
		return nil, err
	}
	var rec AccessRecord
	found, err := getJSON(ctx, key, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no decision for object %s, user %s: %w", objectID, userID, ErrNotFound)
	}
	return &rec, nil
}
