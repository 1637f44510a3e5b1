package tomasulo

// CDBDescriptor is one broadcast slot of the common data bus. A busy
// descriptor names the tag that is broadcasting and the register it is
// writing to.
type CDBDescriptor struct {
	Busy bool
	Tag  uint32
	Reg  int32
}

// CDBPool is the fixed-size pool of result-broadcast slots. Its length is
// the configured CDB-slot count ("r" / "ROB size") and caps the number of
// instructions that can broadcast - and therefore retire - per cycle.
//
// A descriptor is only overwritten when the execute stage pairs it with a
// waiting instruction in a given cycle; a descriptor the waiting list
// never reaches that cycle keeps whatever it held before. This matches
// the original engine's behavior: forwarding against a stale descriptor
// is harmless, since it can only ever re-ready a register that a
// follow-up broadcast (or the same one, observed again) already readied.
type CDBPool struct {
	Slots []CDBDescriptor
}

// NewCDBPool allocates a pool of n idle descriptors.
func NewCDBPool(n uint64) *CDBPool {
	return &CDBPool{Slots: make([]CDBDescriptor, n)}
}
