package cuckoo

import (
	"math/bits"
	"math/rand/v2"

	"github.com/bradenaw/cuckoofilter/internal/obslog"
)

// maxLoadFactorFourSlot is the load factor above which the constructor
// doubles numBuckets, for the fixed 4-slot-per-bucket layout this
// implementation uses.
const maxLoadFactorFourSlot = 0.96

// minBitsPerItem and maxBitsPerItem bound the fingerprint width. Widths
// below 5 leave no room for a nonzero low nibble plus empty-slot
// sentinel; widths above 32 don't fit in a uint32 tag.
const (
	minBitsPerItem = 5
	maxBitsPerItem = 32
)

// victimCache holds the single fingerprint that could not be placed
// after maxCuckooCount relocation attempts. While used, the filter is
// full and further inserts fail until a delete frees a slot.
type victimCache struct {
	index uint64
	tag   uint32
	used  bool
}

// Filter is a semi-sort cuckoo filter: a probabilistic set supporting
// Add, Contains, and Delete of opaque byte strings with a bounded false
// positive rate. It is not safe for concurrent use; callers that need
// concurrent access must supply their own exclusive-writer/shared-reader
// lock.
type Filter struct {
	bitsPerItem   uint64
	bitsPerTag    uint64
	bitsPerBucket uint64
	bitsMask      uint64
	numBuckets    uint64

	buckets  []byte
	numItems uint32
	victim   victimCache

	rng    *rand.Rand
	logger *obslog.Logger
}

// SetLogger attaches a logger used only for verbose victim-cache
// transition diagnostics; it is never consulted on the Add/Contains/
// Delete hot path itself. Passing nil (the default) disables logging.
func (fl *Filter) SetLogger(logger *obslog.Logger) {
	fl.logger = logger
}

// New returns a filter sized to hold approximately totalSize items at
// bitsPerItem bits of fingerprint per item. bitsPerItem must be in
// [5, 32]; wider fingerprints lower the false-positive rate at the cost
// of memory. A bitsPerItem outside that range is a programmer error and
// panics.
func New(totalSize uint64, bitsPerItem uint) *Filter {
	if bitsPerItem < minBitsPerItem || bitsPerItem > maxBitsPerItem {
		panic("cuckoo: bitsPerItem must be in [5, 32]")
	}

	numBuckets := upperPower2(ceilDiv(totalSize, tagsPerBucket))
	if numBuckets == 0 {
		numBuckets = 1
	}
	frac := float64(totalSize) / float64(numBuckets*tagsPerBucket)
	if frac > maxLoadFactorFourSlot {
		numBuckets <<= 1
	}
	if numBuckets == 0 {
		numBuckets = 1
	}

	fl := &Filter{
		bitsPerItem:   uint64(bitsPerItem),
		bitsPerTag:    uint64(bitsPerItem) - fpSize,
		bitsPerBucket: (uint64(bitsPerItem) - 1) * tagsPerBucket,
		numBuckets:    numBuckets,
		rng:           newFilterRand(),
	}
	fl.bitsMask = ((uint64(1) << fl.bitsPerTag) - 1) << fpSize

	bucketsLen := ceilDiv(fl.bitsPerBucket*fl.numBuckets, 8) + 7
	fl.buckets = make([]byte, bucketsLen)

	return fl
}

// newFilterRand builds a per-filter pseudo-random source for eviction
// choices, seeded from the process-wide generator so that each Filter
// gets an independent stream rather than sharing one global source. The
// seed is not exposed or configurable, so eviction choices differ from
// run to run.
func newFilterRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// upperPower2 returns the smallest power of two >= x, or 0 for x == 0.
func upperPower2(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	if x == 1 {
		return 1
	}
	return uint64(1) << bits.Len64(x-1)
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// Reset clears all stored items and the victim slot, returning the
// filter to its just-constructed state. The permutation tables (shared
// process-wide) are untouched.
func (fl *Filter) Reset() {
	for i := range fl.buckets {
		fl.buckets[i] = 0
	}
	fl.victim = victimCache{}
	fl.numItems = 0
}

// Size returns the number of items currently stored, including the
// victim slot if occupied.
func (fl *Filter) Size() int {
	n := int(fl.numItems)
	if fl.victim.used {
		n++
	}
	return n
}

// Capacity returns the total number of fingerprint slots (numBuckets*4).
func (fl *Filter) Capacity() uint64 {
	return fl.numBuckets * tagsPerBucket
}

// Stats reports summary statistics about the filter, mirroring the
// reference implementation's info() call.
type Stats struct {
	HashtableSizeBytes uint64
	BitsPerItem        uint64
	BitsPerTag         uint64
	NumBuckets         uint64
	Capacity           uint64
	LoadFactor         float64
	BitsPerKey         float64
	Size               int
}

// Info returns the filter's current statistics.
func (fl *Filter) Info() Stats {
	size := fl.Size()
	capacity := fl.Capacity()
	var loadFactor, bitsPerKey float64
	if capacity > 0 {
		loadFactor = float64(size) / float64(capacity)
	}
	if size > 0 {
		bitsPerKey = 8 * float64(len(fl.buckets)) / float64(size)
	}
	return Stats{
		HashtableSizeBytes: uint64(len(fl.buckets)),
		BitsPerItem:        fl.bitsPerItem,
		BitsPerTag:         fl.bitsPerTag,
		NumBuckets:         fl.numBuckets,
		Capacity:           capacity,
		LoadFactor:         loadFactor,
		BitsPerKey:         bitsPerKey,
		Size:               size,
	}
}
