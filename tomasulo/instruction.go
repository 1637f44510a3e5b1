// Package tomasulo implements a cycle-accurate Tomasulo-style dynamic
// scheduling engine: a five-stage fetch/dispatch/schedule/execute/state-update
// pipeline driven by a scoreboard, a tag-ordered scheduling queue, and a
// common data bus (CDB).
package tomasulo

const (
	// NumRegisters is the size of the architectural register file.
	NumRegisters = 128

	// NumFUTypes is the number of distinct functional-unit types.
	NumFUTypes = 3

	// NumStages is the number of cycle-log columns: fetch, dispatch,
	// schedule, execute, state-update.
	NumStages = 5

	// NoReg is the sentinel source/destination register value meaning
	// "no register". Any negative value is treated the same way, but
	// this is the canonical one used when constructing instructions.
	NoReg int32 = -1
)

// Instruction is a decoded instruction as read from the trace source.
// It carries no semantics of its own: the engine never evaluates an
// operation, only its functional-unit class and its register operands.
type Instruction struct {
	// Address is an opaque value carried only for logging/debugging.
	Address uint32

	// OpClass selects a functional-unit type: 0, 1, or 2. The value -1
	// is a legal input that the scheduler remaps to type 1 at fire time.
	OpClass int32

	// Src holds the two source register identifiers. A negative value
	// means "no source"; such an operand is always ready.
	Src [2]int32

	// Dest is the destination register identifier, or negative for
	// "no destination".
	Dest int32

	// Tag is the instruction's program-order identifier. It is assigned
	// by the simulator at fetch time and is the zero value until then.
	Tag uint32
}

// effectiveOpClass remaps the -1 "default" op-class to functional-unit
// type 1, per the scheduling contract.
func effectiveOpClass(opClass int32) int32 {
	if opClass == -1 {
		return 1
	}
	return opClass
}

// hasReg reports whether reg names a real architectural register rather
// than the "no register" sentinel. Any negative value is a sentinel.
func hasReg(reg int32) bool {
	return reg >= 0
}
