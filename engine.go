package cuckoo

// maxCuckooCount bounds the number of relocation attempts per insert
// before the fingerprint is parked in the victim slot.
const maxCuckooCount = 500

// Add inserts key into the filter. After Add returns nil, Contains(key)
// reports true until Delete is called an equal number of times.
//
// Add never mutates the filter on failure: if the victim slot is already
// occupied, it returns ErrNotEnoughSpace immediately.
func (fl *Filter) Add(key []byte) error {
	if fl.victim.used {
		return ErrNotEnoughSpace
	}
	index, tag := fl.indexAndTag(key)
	fl.addImpl(index, tag)
	return nil
}

// addImpl runs the bounded-relocation insertion loop starting from
// (i, tag). If no empty slot is found within maxCuckooCount relocations,
// the last evicted (index, tag) pair is parked in the victim slot.
func (fl *Filter) addImpl(i uint64, tag uint32) {
	curIndex, curTag := i, tag
	for count := 0; count < maxCuckooCount; count++ {
		kickout := count > 0
		oldTag, inserted := fl.tryInsert(curIndex, curTag, kickout)
		if inserted {
			fl.numItems++
			return
		}
		if kickout {
			curTag = oldTag
		}
		curIndex = fl.altIndex(curIndex, curTag)
	}
	fl.victim = victimCache{index: curIndex, tag: curTag, used: true}
	if fl.logger != nil {
		fl.logger.Debugf("victim slot occupied: index=%d tag=%d", curIndex, curTag)
	}
}

// tryInsert places tag in the first empty slot of bucket i. If the
// bucket is full and kickout is true, it evicts a uniformly random slot,
// writes tag in its place, and returns the evicted tag. If kickout is
// false and the bucket is full, the bucket is left unmodified.
func (fl *Filter) tryInsert(i uint64, tag uint32, kickout bool) (oldTag uint32, inserted bool) {
	tags := fl.readBucket(i)
	for j := 0; j < tagsPerBucket; j++ {
		if tags[j] == 0 {
			tags[j] = tag
			fl.writeBucket(i, tags)
			return 0, true
		}
	}
	if kickout {
		r := fl.rng.IntN(tagsPerBucket)
		oldTag = tags[r]
		tags[r] = tag
		fl.writeBucket(i, tags)
	}
	return oldTag, false
}

// Contains reports whether key might be in the filter. It never
// mutates the filter.
func (fl *Filter) Contains(key []byte) bool {
	i1, tag := fl.indexAndTag(key)
	i2 := fl.altIndex(i1, tag)

	if fl.victim.used && fl.victim.tag == tag && (fl.victim.index == i1 || fl.victim.index == i2) {
		return true
	}
	return fl.bucketHasTag(i1, tag) || fl.bucketHasTag(i2, tag)
}

func (fl *Filter) bucketHasTag(i uint64, tag uint32) bool {
	tags := fl.readBucket(i)
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Delete removes one occurrence of key from the filter. key must have
// been previously added and not yet matched by an equal number of
// deletes, or ErrNotFound is returned.
//
// After a successful delete, if the victim slot was occupied its
// fingerprint is re-attempted via the normal insertion path, which now
// has room since a slot was just freed.
func (fl *Filter) Delete(key []byte) error {
	i1, tag := fl.indexAndTag(key)
	i2 := fl.altIndex(i1, tag)

	if fl.deleteTagFromBucket(i1, tag) || fl.deleteTagFromBucket(i2, tag) {
		fl.numItems--
		fl.tryEliminateVictim()
		return nil
	}
	if fl.victim.used && fl.victim.tag == tag && (fl.victim.index == i1 || fl.victim.index == i2) {
		fl.victim.used = false
		return nil
	}
	return ErrNotFound
}

func (fl *Filter) deleteTagFromBucket(i uint64, tag uint32) bool {
	tags := fl.readBucket(i)
	for j, t := range tags {
		if t == tag {
			tags[j] = 0
			fl.writeBucket(i, tags)
			return true
		}
	}
	return false
}

// tryEliminateVictim re-inserts the victim's fingerprint now that a
// slot has just been freed elsewhere. This is single-shot: if it still
// can't find room, the last fingerprint displaced by the relocation loop
// becomes the new victim.
func (fl *Filter) tryEliminateVictim() {
	if !fl.victim.used {
		return
	}
	index, tag := fl.victim.index, fl.victim.tag
	fl.victim.used = false
	if fl.logger != nil {
		fl.logger.Debugf("re-absorbing victim: index=%d tag=%d", index, tag)
	}
	fl.addImpl(index, tag)
}
