package layout

import "hash/fnv"

// StringTable implements equality and tag lookup for string-discriminated
// unions. Strings are identified by a stable 64-bit content hash; a hash
// collision between distinct strings falls back to full byte comparison, so
// a collision is never mistaken for equality.
type StringTable struct {
	hash    func(string) uint64
	buckets map[uint64][]string
}

func NewStringTable() *StringTable {
	return &StringTable{
		hash:    fnv64a,
		buckets: make(map[uint64][]string, 64),
	}
}

func fnv64a(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Tag returns the stable content hash used as the string's discriminant.
func (t *StringTable) Tag(s string) uint64 {
	return t.hash(s)
}

// Insert registers a string and returns its tag. Inserting an existing
// string is a no-op.
func (t *StringTable) Insert(s string) uint64 {
	h := t.hash(s)
	for _, have := range t.buckets[h] {
		if have == s {
			return h
		}
	}
	t.buckets[h] = append(t.buckets[h], s)
	return h
}

// Contains reports whether s was inserted, comparing bytes inside the
// hash bucket.
func (t *StringTable) Contains(s string) bool {
	h := t.hash(s)
	for _, have := range t.buckets[h] {
		if have == s {
			return true
		}
	}
	return false
}

// Equal compares two strings the way the lowered code does: hashes first,
// then bytes when the hashes agree.
func (t *StringTable) Equal(a, b string) bool {
	if t.hash(a) != t.hash(b) {
		return false
	}
	return a == b
}

// BucketLen reports how many distinct strings share the hash of s.
func (t *StringTable) BucketLen(s string) int {
	return len(t.buckets[t.hash(s)])
}
