// Package cuckoo implements a semi-sort cuckoo filter, a space-efficient
// probabilistic structure for set membership tests.
//
// Essentially, a cuckoo filter behaves like a set, but the only query it
// supports is "is x a member of the set?", to which it can only respond
// "no" or "maybe". Unlike a Bloom filter, it also supports Delete.
//
// This implementation packs each bucket's four fingerprints using a
// semi-sort permutation code: the low nibble of each fingerprint is
// encoded as one of 3,876 codewords in 12 bits rather than stored
// directly, saving roughly one bit per item versus a naive encoding.
//
// The rate at which the filter responds "maybe" when an item wasn't
// actually added is configurable via bitsPerItem, and changes the space
// used by the filter.
package cuckoo
