package cuckoo

import "errors"

// ErrNotEnoughSpace is returned from Add when the victim slot is already
// occupied: the filter has exceeded its practical capacity, or the
// bounded relocation search failed on a previous insert. The filter
// remains valid; a Delete may free a slot and allow further inserts.
var ErrNotEnoughSpace = errors.New("cuckoo: not enough space")

// ErrNotFound is returned from Delete when the key's tag is present in
// neither candidate bucket nor the victim slot. For any key that was
// previously added and not yet deleted, this must never occur; seeing it
// means the key (probably) was never inserted.
var ErrNotFound = errors.New("cuckoo: not found")
