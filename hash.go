package cuckoo

import "github.com/cespare/xxhash/v2"

// altIndexMixer is the MurmurHash2 constant used to mix a tag into an
// alternate bucket index. Using a fixed odd multiplier keeps altIndex an
// involution: altIndex(altIndex(i, t), t) == i for any i < numBuckets,
// because numBuckets is a power of two and both operands are reduced mod
// numBuckets via XOR.
const altIndexMixer = 0x5bd1e995

// hash64 derives a 64-bit digest of key, keyed by seed. xxhash.Sum64
// takes no seed parameter directly, so a nonzero seed is folded into the
// digest by hashing it ahead of key -- the analogue of komihash's seed
// argument. A zero seed hashes key alone.
func hash64(key []byte, seed uint64) uint64 {
	var d xxhash.Digest
	d.Reset()
	if seed != 0 {
		var seedBytes [8]byte
		for i := range seedBytes {
			seedBytes[i] = byte(seed >> (8 * i))
		}
		_, _ = d.Write(seedBytes[:])
	}
	_, _ = d.Write(key)
	return d.Sum64()
}

// indexAndTag derives the primary bucket index and fingerprint for key.
func (fl *Filter) indexAndTag(key []byte) (index uint64, tag uint32) {
	h := hash64(key, 0)
	index = (h >> 32) & (fl.numBuckets - 1)
	tag = uint32(h & ((uint64(1) << fl.bitsPerItem) - 1))
	if tag == 0 {
		tag = 1
	}
	return index, tag
}

// altIndex returns the other candidate bucket index for tag, given
// either one of the two candidate indices.
func (fl *Filter) altIndex(index uint64, tag uint32) uint64 {
	return (index ^ (uint64(tag) * altIndexMixer)) & (fl.numBuckets - 1)
}
