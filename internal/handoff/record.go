// Package handoff passes generated record numbers from one workflow run to the
// next through an append-only log of records, where the last record is the
// current state.
package handoff

import (
	"context"
	"errors"
	"fmt"
)

// well-known record keys
const (
	KeyVendorNo = "vendor_no"
	KeyRFQNo    = "RFQ_no"
)

var (
	ErrInvalidRecord = errors.New("a record must hold exactly one non-empty key and value")
	ErrNoEntry       = errors.New("no handoff record has been written yet")
	ErrKeyMissing    = errors.New("latest handoff record does not hold the key")
)

// Record is a single extracted identifier, like {"RFQ_no": "RFQ007686"}.
type Record map[string]string

// NewRecord is shorthand for a single key record.
func NewRecord(key, value string) Record {
	return Record{key: value}
}

// Key returns the single key/value pair of the record.
func (r Record) Key() (key, value string, ok bool) {
	if len(r) != 1 {
		return "", "", false
	}
	for k, v := range r {
		return k, v, true
	}
	return "", "", false
}

// Validate checks the one-key-per-record invariant.
func (r Record) Validate() error {
	key, value, ok := r.Key()
	if !ok || key == "" || value == "" {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, map[string]string(r))
	}
	return nil
}

// Store is an append-only log of records.
type Store interface {
	// Append adds a record to the end of the log, records are never modified afterwards.
	Append(ctx context.Context, rec Record) error
	// Latest returns the last appended record. ok is false when the log is empty
	// or could not be interpreted, that is not an error.
	Latest(ctx context.Context) (rec Record, ok bool, err error)
}

// Lookup reads key from a record, it never looks past the record it is given.
func Lookup(rec Record, key string) (string, bool) {
	if rec == nil {
		return "", false
	}
	v, ok := rec[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// LatestValue returns the value of key in the latest record of the store.
// Only the latest record is consulted, an older record holding the key does not count.
func LatestValue(ctx context.Context, store Store, key string) (string, error) {
	rec, ok, err := store.Latest(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoEntry
	}
	v, ok := Lookup(rec, key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyMissing, key)
	}
	return v, nil
}
