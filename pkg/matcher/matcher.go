// Package matcher correlates user records across the two identity sources
// by their normalized identity key.
//
// Matching is index-based rather than pairwise: each side is loaded into an
// insertion-ordered key index, and a key present in both indexes after
// eligibility filtering is a match. The whole partition runs in O(n+m).
package matcher

import (
	"github.com/opsforge/usersync/pkg/directory"
)

// Index is an insertion-ordered map of identity key to record.
//
// Duplicate keys follow a last-write-wins policy: the later record replaces
// the earlier one but keeps its original position. This is a documented
// behavior of the source exports, not an error condition.
type Index struct {
	keys  []string
	byKey map[string]directory.UserRecord
}

// NewIndex builds an index from records, skipping any record without a
// usable identity key.
func NewIndex(records []directory.UserRecord) *Index {
	idx := &Index{byKey: make(map[string]directory.UserRecord, len(records))}
	for _, rec := range records {
		idx.Put(rec)
	}
	return idx
}

// Put inserts a record under its identity key. Records without a key are
// ignored. An existing key is overwritten in place.
func (idx *Index) Put(rec directory.UserRecord) {
	if !rec.HasKey() {
		return
	}
	if _, exists := idx.byKey[rec.IdentityKey]; !exists {
		idx.keys = append(idx.keys, rec.IdentityKey)
	}
	idx.byKey[rec.IdentityKey] = rec
}

// Get returns the record for a key.
func (idx *Index) Get(key string) (directory.UserRecord, bool) {
	rec, ok := idx.byKey[key]
	return rec, ok
}

// Has reports whether a key is present.
func (idx *Index) Has(key string) bool {
	_, ok := idx.byKey[key]
	return ok
}

// Keys returns the keys in insertion order.
func (idx *Index) Keys() []string {
	keys := make([]string, len(idx.keys))
	copy(keys, idx.keys)
	return keys
}

// Len returns the number of distinct keys.
func (idx *Index) Len() int {
	return len(idx.keys)
}

// Result is the three-way partition produced by Match.
type Result struct {
	// MatchedKeys are keys present on both sides, in primary index
	// insertion order.
	MatchedKeys []string
	// Primary is the filtered primary-side index.
	Primary *Index
	// Secondary is the secondary-side index.
	Secondary *Index
	// PrimaryOnly are eligible primary records with no secondary
	// counterpart, in primary iteration order.
	PrimaryOnly []directory.UserRecord
	// SecondaryOnly are secondary records with no primary counterpart,
	// in secondary iteration order.
	SecondaryOnly []directory.UserRecord
}

// Match partitions the two record sets by identity key.
//
// The eligibility predicate filters the primary side before indexing; a nil
// predicate admits every primary record. Secondary records are filtered only
// by key presence. Records with an empty identity key never match and never
// appear in the only-sets.
func Match(primary, secondary []directory.UserRecord, eligible directory.Eligibility) *Result {
	primaryIdx := NewIndex(filter(primary, eligible))
	secondaryIdx := NewIndex(secondary)

	res := &Result{
		Primary:   primaryIdx,
		Secondary: secondaryIdx,
	}

	for _, key := range primaryIdx.keys {
		if secondaryIdx.Has(key) {
			res.MatchedKeys = append(res.MatchedKeys, key)
		} else {
			rec, _ := primaryIdx.Get(key)
			res.PrimaryOnly = append(res.PrimaryOnly, rec)
		}
	}

	for _, key := range secondaryIdx.keys {
		if !primaryIdx.Has(key) {
			rec, _ := secondaryIdx.Get(key)
			res.SecondaryOnly = append(res.SecondaryOnly, rec)
		}
	}

	return res
}

func filter(records []directory.UserRecord, eligible directory.Eligibility) []directory.UserRecord {
	if eligible == nil {
		return records
	}
	kept := make([]directory.UserRecord, 0, len(records))
	for _, rec := range records {
		if eligible(rec) {
			kept = append(kept, rec)
		}
	}
	return kept
}
