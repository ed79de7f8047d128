/*
attributes.go — per-user hidden attribute records.

CH and R are opaque outputs of the issuing authority; the contract stores
them verbatim under (attr, userID, category). Usage invariant: callers must
pick a fresh category per attribute; writing an existing (user, category)
pair overwrites the prior record.
*/
package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hyperledger/fabric-contract-api-go/v2/contractapi"

	"github.com/yourorg/ipaccess_cc/field"
)

// SetHiddenAttribute upserts one attribute record. chValue must be a decimal
// field value (it enters the comparison vector); rValue and authorityID are
// stored verbatim for the off-ledger scheme.
func (c *IPAccessContract) SetHiddenAttribute(ctx contractapi.TransactionContextInterface,
	userID, category, chValue, rValue, authorityID string) (*HiddenAttribute, error) {

	userID = strings.TrimSpace(userID)
	category = strings.TrimSpace(category)
	if userID == "" || category == "" {
		return nil, fmt.Errorf("userID/category empty")
	}
	if _, err := field.ParseElement(chValue); err != nil {
		return nil, fmt.Errorf("chValue: %w", err)
	}

	key, err := compositeKey(ctx, nsAttribute, userID, category)
	if err != nil {
		return nil, err
	}
	rec := &HiddenAttribute{
		UserID:      userID,
		Category:    category,
		CH:          chValue,
		R:           rValue,
		AuthorityID: authorityID,
	}
	if err := putJSON(ctx, key, rec); err != nil {
		return nil, err
	}

	_ = ctx.GetStub().SetEvent(eventHiddenAttributeStored, mustJSON(map[string]string{
		"userID": userID, "category": category, "authorityID": authorityID,
		"time": nowRFC3339(ctx),
	}))
	return rec, nil
}

// ListHiddenAttributes returns the user's attribute set sorted by category.
// An empty set fails with ErrNoAttributes: zero attributes is a precondition
// failure for every consumer of this listing.
func (c *IPAccessContract) ListHiddenAttributes(ctx contractapi.TransactionContextInterface, userID string) ([]HiddenAttribute, error) {
	attrs, err := c.hiddenAttributes(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNoAttributes)
	}
	return attrs, nil
}

// hiddenAttributes scans the (attr, userID) prefix and re-sorts by category.
// The ledger already returns lexicographic key order, but category order is
// correctness-critical for the transform, so it is imposed explicitly rather
// than assumed from scan order.
func (c *IPAccessContract) hiddenAttributes(ctx contractapi.TransactionContextInterface, userID string) ([]HiddenAttribute, error) {
	out := []HiddenAttribute{}
	err := scanPrefix(ctx, nsAttribute, []string{userID}, func(key string, val []byte) error {
		var rec HiddenAttribute
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("decode attribute %q: %w", key, err)
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}
