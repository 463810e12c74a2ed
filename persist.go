package cuckoo

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// persistMagic tags the start of a serialized filter so
// UnmarshalBinaryState can reject obviously-foreign data before trusting the length fields.
const persistMagic = "CKF1"

// ErrCorruptState is returned by UnmarshalBinaryState when the input
// doesn't look like a filter produced by MarshalBinary.
var ErrCorruptState = errors.New("cuckoo: corrupt persisted state")

// PersistedState mirrors the on-disk/wire layout of a Filter: everything
// needed to reconstruct it exactly, without recomputing the permutation
// tables (which are a process-wide constant, not part of the state).
type PersistedState struct {
	BitsPerItem uint64
	NumBuckets  uint64
	NumItems    uint32
	Victim      struct {
		Index uint64
		Tag   uint32
		Used  bool
	}
	Buckets []byte
}

// MarshalBinary serializes the filter's persisted state: bitsPerItem,
// numBuckets, numItems, the victim slot, and the raw bucket bytes. The
// byte-exact bucket layout is governed by the bucket codec and must be
// restored with a filter constructed for the same bitsPerItem.
func (fl *Filter) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, len(persistMagic)+8+8+4+8+4+1+len(fl.buckets))
	buf = append(buf, persistMagic...)
	buf = binary.LittleEndian.AppendUint64(buf, fl.bitsPerItem)
	buf = binary.LittleEndian.AppendUint64(buf, fl.numBuckets)
	buf = binary.LittleEndian.AppendUint32(buf, fl.numItems)
	buf = binary.LittleEndian.AppendUint64(buf, fl.victim.index)
	buf = binary.LittleEndian.AppendUint32(buf, fl.victim.tag)
	if fl.victim.used {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, fl.buckets...)
	return buf, nil
}

// UnmarshalBinaryState decodes bytes produced by MarshalBinary into a
// fresh, independent Filter.
func UnmarshalBinaryState(data []byte) (*Filter, error) {
	const headerLen = 4 + 8 + 8 + 4 + 8 + 4 + 1
	if len(data) < headerLen {
		return nil, ErrCorruptState
	}
	if string(data[:4]) != persistMagic {
		return nil, ErrCorruptState
	}
	off := 4
	bitsPerItem := binary.LittleEndian.Uint64(data[off:])
	off += 8
	numBuckets := binary.LittleEndian.Uint64(data[off:])
	off += 8
	numItems := binary.LittleEndian.Uint32(data[off:])
	off += 4
	victimIndex := binary.LittleEndian.Uint64(data[off:])
	off += 8
	victimTag := binary.LittleEndian.Uint32(data[off:])
	off += 4
	victimUsed := data[off] != 0
	off++

	if bitsPerItem < minBitsPerItem || bitsPerItem > maxBitsPerItem {
		return nil, fmt.Errorf("%w: bitsPerItem out of range", ErrCorruptState)
	}

	fl := &Filter{}
	fl.bitsPerItem = bitsPerItem
	fl.bitsPerTag = bitsPerItem - fpSize
	fl.bitsPerBucket = (bitsPerItem - 1) * tagsPerBucket
	fl.bitsMask = ((uint64(1) << fl.bitsPerTag) - 1) << fpSize
	fl.numBuckets = numBuckets
	fl.numItems = numItems
	fl.victim = victimCache{index: victimIndex, tag: victimTag, used: victimUsed}
	fl.rng = newFilterRand()

	wantLen := ceilDiv(fl.bitsPerBucket*fl.numBuckets, 8) + 7
	body := data[off:]
	if uint64(len(body)) != wantLen {
		return nil, fmt.Errorf("%w: bucket length mismatch", ErrCorruptState)
	}
	fl.buckets = make([]byte, len(body))
	copy(fl.buckets, body)

	return fl, nil
}

// State returns a snapshot of the filter's persisted state without the
// MarshalBinary framing, for callers that want to manage their own
// wire format.
func (fl *Filter) State() PersistedState {
	var s PersistedState
	s.BitsPerItem = fl.bitsPerItem
	s.NumBuckets = fl.numBuckets
	s.NumItems = fl.numItems
	s.Victim.Index = fl.victim.index
	s.Victim.Tag = fl.victim.tag
	s.Victim.Used = fl.victim.used
	s.Buckets = append([]byte(nil), fl.buckets...)
	return s
}
