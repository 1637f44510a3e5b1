package tomasulo

// freeSlot is the sentinel value for an unoccupied scoreboard slot.
const freeSlot int64 = -1

// Scoreboard holds, for each functional-unit type, a fixed-length vector
// of slots that are either free or hold exactly one scheduled tag.
type Scoreboard struct {
	slots [NumFUTypes][]int64
}

// NewScoreboard allocates a scoreboard with counts[i] slots for FU type i,
// every slot initially free.
func NewScoreboard(counts [NumFUTypes]uint64) *Scoreboard {
	sb := &Scoreboard{}
	for i := 0; i < NumFUTypes; i++ {
		sb.slots[i] = make([]int64, counts[i])
		for j := range sb.slots[i] {
			sb.slots[i][j] = freeSlot
		}
	}
	return sb
}

// Alloc finds the first free slot of the given FU type and assigns tag to
// it. It reports false if no slot is free.
func (sb *Scoreboard) Alloc(fuType int32, tag uint32) bool {
	for i, v := range sb.slots[fuType] {
		if v == freeSlot {
			sb.slots[fuType][i] = int64(tag)
			return true
		}
	}
	return false
}

// Free releases the slot holding tag in the given FU type, making it
// available again. tag must currently occupy exactly one slot of that type.
func (sb *Scoreboard) Free(fuType int32, tag uint32) {
	for i, v := range sb.slots[fuType] {
		if v == int64(tag) {
			sb.slots[fuType][i] = freeSlot
			return
		}
	}
}

// OccupiedTags returns the tags currently occupying slots of the given FU
// type, in slot order (not tag order - callers that need tag order must
// sort the result themselves).
func (sb *Scoreboard) OccupiedTags(fuType int32) []uint32 {
	var tags []uint32
	for _, v := range sb.slots[fuType] {
		if v != freeSlot {
			tags = append(tags, uint32(v))
		}
	}
	return tags
}
