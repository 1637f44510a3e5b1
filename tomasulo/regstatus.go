package tomasulo

// registerSlot is one entry of the register status table: either ready,
// or pending the result of a specific producer tag.
type registerSlot struct {
	ready bool
	tag   uint32
}

// RegisterStatusTable maps each architectural register to either "ready"
// or "pending tag T". IsReady and MarkReadyIfProducer accept a negative
// (sentinel) register and leave the table alone; ProducerTag and
// MarkPending index the table directly, so callers check hasReg first.
type RegisterStatusTable struct {
	regs [NumRegisters]registerSlot
}

// NewRegisterStatusTable returns a table with every register ready, as
// the processor starts with no in-flight producers.
func NewRegisterStatusTable() *RegisterStatusTable {
	t := &RegisterStatusTable{}
	for i := range t.regs {
		t.regs[i].ready = true
	}
	return t
}

// IsReady reports whether reg currently has no pending producer. A
// negative (sentinel) register is always ready, since it names no
// register at all.
func (t *RegisterStatusTable) IsReady(reg int32) bool {
	if !hasReg(reg) {
		return true
	}
	return t.regs[reg].ready
}

// ProducerTag returns the tag of reg's current producer. Only meaningful
// when IsReady(reg) is false.
func (t *RegisterStatusTable) ProducerTag(reg int32) uint32 {
	return t.regs[reg].tag
}

// MarkPending records that reg's next value will come from the
// instruction identified by tag.
func (t *RegisterStatusTable) MarkPending(reg int32, tag uint32) {
	t.regs[reg] = registerSlot{ready: false, tag: tag}
}

// MarkReadyIfProducer flips reg to ready, but only if tag is still the
// registered producer. A register may have been re-dispatched to a
// younger producer since tag was recorded; in that case this is a no-op,
// since the younger producer's own broadcast is what must ready it.
func (t *RegisterStatusTable) MarkReadyIfProducer(reg int32, tag uint32) {
	if !hasReg(reg) {
		return
	}
	if !t.regs[reg].ready && t.regs[reg].tag == tag {
		t.regs[reg].ready = true
	}
}
