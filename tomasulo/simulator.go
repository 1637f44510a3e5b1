package tomasulo

import (
	"fmt"
	"io"
)

// Reader is the trace source the simulator fetches from: one decoded
// instruction per call, or io.EOF once the trace is exhausted. The
// simulator assigns tags itself; a Reader never sets Instruction.Tag.
type Reader interface {
	Next() (Instruction, error)
}

// Config is the subset of simulator configuration the engine itself
// needs: the CDB-slot count, the per-type functional-unit counts, and the
// fetch width. The config package's Config is the external, validated,
// JSON-serializable form of the same three parameters.
type Config struct {
	CDBSlots   uint64
	FUCounts   [NumFUTypes]uint64
	FetchWidth uint64
}

// SchedulingQueueCapacity is the derived cap on the scheduling queue:
// twice the sum of the functional-unit counts across all types.
func (c Config) SchedulingQueueCapacity() uint64 {
	var total uint64
	for _, k := range c.FUCounts {
		total += k
	}
	return 2 * total
}

// Simulator is a Tomasulo dynamic-scheduling engine. It owns every piece
// of per-run state - the register status table, scoreboard, CDB pool,
// dispatch/scheduling queues, waiting list, and cycle log - so that each
// stage method can be the sole mutator of a well-defined subset of it,
// and so that constructing a fresh Simulator never touches package-level
// state: running many simulations back to back in one process never
// bleeds state between them.
type Simulator struct {
	cfg Config

	regs       *RegisterStatusTable
	scoreboard *Scoreboard
	cdb        *CDBPool
	dispatchQ  dispatchQueue
	schedQ     *schedulingQueue
	waiting    waitingList
	log        cycleLog

	reader Reader

	schedCap      uint64
	reservedSlots uint64

	nextTag      uint32
	doneFetching bool

	firedCount      uint64
	retiredCount    uint64
	dispatchSizeSum uint64
	maxDispSize     uint64

	cycle uint64

	debugTrace io.Writer
}

// SimulatorOption configures optional Simulator behavior.
type SimulatorOption func(*Simulator)

// WithDebugTrace enables the optional per-stage-transition diagnostic
// trace, writing one line per transition to w in the format
// "<cycle>\t<STAGE>\t<tag+1>". The C++ design this is ported from gated
// this behind a compile-time DEBUG_LOG flag; idiomatic Go has no
// preprocessor, so this is a runtime functional option instead.
func WithDebugTrace(w io.Writer) SimulatorOption {
	return func(s *Simulator) {
		s.debugTrace = w
	}
}

// NewSimulator constructs a Simulator ready to run. cfg must satisfy the
// same constraints as config.Config.Validate (non-zero fetch width and
// CDB-slot count, a non-empty functional-unit mix); NewSimulator does not
// re-validate them, since that is a boundary concern already discharged
// by the config package before the engine is ever reached.
func NewSimulator(cfg Config, reader Reader, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		cfg:        cfg,
		regs:       NewRegisterStatusTable(),
		scoreboard: NewScoreboard(cfg.FUCounts),
		cdb:        NewCDBPool(cfg.CDBSlots),
		schedQ:     newSchedulingQueue(),
		reader:     reader,
		schedCap:   cfg.SchedulingQueueCapacity(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Done reports whether the simulation has drained: the trace source is
// exhausted and the scheduling queue is empty.
func (s *Simulator) Done() bool {
	return s.doneFetching && s.schedQ.Len() == 0
}

// Step advances the simulation by exactly one cycle: the cycle counter is
// incremented once, then every stage runs twice, once per half-cycle, in
// the fixed reverse-pipeline order state-update, execute, schedule,
// dispatch, fetch. Running downstream-before-upstream within a cycle
// ensures a stage's producers in that same cycle never overwrite a slot
// before that cycle's consumer has read it.
func (s *Simulator) Step() {
	s.cycle++

	for _, firstHalf := range [2]bool{true, false} {
		s.stateUpdate(firstHalf)
		s.execute(firstHalf)
		s.schedule(firstHalf)
		s.dispatch(firstHalf)
		s.fetch(firstHalf)
	}
}

// Run steps the simulation to completion and returns the final
// statistics. It has no cycle ceiling of its own: Done is defined purely
// by trace exhaustion and an empty scheduling queue, per the core's
// semantics. A caller that wants an operational ceiling against a
// malformed trace should drive Step itself in a bounded loop instead
// (see the CLI driver's -max-cycles flag).
func (s *Simulator) Run() Stats {
	for !s.Done() {
		s.Step()
	}
	return s.Stats()
}

// Stats computes the aggregate throughput statistics for the run so far.
func (s *Simulator) Stats() Stats {
	stats := Stats{
		CycleCount:          s.cycle,
		RetiredInstructions: s.retiredCount,
		MaxDispSize:         s.maxDispSize,
	}
	if s.cycle == 0 {
		return stats
	}
	cycles := float64(s.cycle)
	stats.AvgInstRetired = float64(s.retiredCount) / cycles
	stats.AvgInstFired = float64(s.firedCount) / cycles
	stats.AvgDispSize = float64(s.dispatchSizeSum) / cycles
	return stats
}

// CycleLog returns the fetch/dispatch/schedule/execute/state-update
// cycles recorded for the instruction with the given tag (0-based).
func (s *Simulator) CycleLog(tag uint32) [NumStages]uint64 {
	return s.log.CycleLog(tag)
}

// trace writes one diagnostic line if a debug trace sink is configured.
func (s *Simulator) trace(stage string, tag uint32) {
	if s.debugTrace == nil {
		return
	}
	fmt.Fprintf(s.debugTrace, "%d\t%s\t%d\n", s.cycle, stage, tag+1)
}
