package tomasulo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/tomasulo"
	"github.com/sarchlab/tomasim/trace"
)

func newSim(cfg tomasulo.Config, insts []tomasulo.Instruction) *tomasulo.Simulator {
	return tomasulo.NewSimulator(cfg, trace.NewSliceReader(insts))
}

var _ = Describe("Scenario S1: single independent instruction", func() {
	It("retires in 5 cycles with the expected per-stage cycle log", func() {
		cfg := tomasulo.Config{CDBSlots: 1, FUCounts: [3]uint64{1, 1, 1}, FetchWidth: 1}
		insts := []tomasulo.Instruction{
			{OpClass: 0, Src: [2]int32{-1, -1}, Dest: 5},
		}
		sim := newSim(cfg, insts)
		stats := sim.Run()

		Expect(stats.CycleCount).To(BeEquivalentTo(5))
		Expect(stats.RetiredInstructions).To(BeEquivalentTo(1))
		Expect(sim.CycleLog(0)).To(Equal([5]uint64{1, 2, 3, 4, 5}))
	})
})

var _ = Describe("Scenario S2: RAW hazard, no replay", func() {
	It("fires the dependent instruction only in the cycle after its producer's broadcast", func() {
		cfg := tomasulo.Config{CDBSlots: 2, FUCounts: [3]uint64{1, 1, 1}, FetchWidth: 2}
		insts := []tomasulo.Instruction{
			{OpClass: 0, Src: [2]int32{-1, -1}, Dest: 3},
			{OpClass: 0, Src: [2]int32{3, -1}, Dest: 4},
		}
		sim := newSim(cfg, insts)
		sim.Run()

		Expect(sim.CycleLog(0)).To(Equal([5]uint64{1, 2, 3, 4, 5}))
		// Column 2 ("schedule") is recorded at dispatch time as the
		// earliest eligible schedule cycle, not the actual fire cycle;
		// the RAW hazard only pushes out columns 3 and 4.
		Expect(sim.CycleLog(1)).To(Equal([5]uint64{1, 2, 3, 6, 7}))
	})
})

var _ = Describe("Scenario S3: CDB contention", func() {
	It("serializes broadcast of two simultaneously-completed instructions in tag order", func() {
		cfg := tomasulo.Config{CDBSlots: 1, FUCounts: [3]uint64{2, 0, 0}, FetchWidth: 2}
		insts := []tomasulo.Instruction{
			{OpClass: 0, Src: [2]int32{-1, -1}, Dest: 10},
			{OpClass: 0, Src: [2]int32{-1, -1}, Dest: 11},
		}
		sim := newSim(cfg, insts)
		sim.Run()

		log0 := sim.CycleLog(0)
		log1 := sim.CycleLog(1)

		Expect(log0[2]).To(BeEquivalentTo(3)) // schedule
		Expect(log1[2]).To(BeEquivalentTo(3))
		Expect(log0[3]).To(BeEquivalentTo(4)) // execute
		Expect(log1[3]).To(BeEquivalentTo(4))
		Expect(log0[4]).To(BeEquivalentTo(5)) // state-update: I1 retires first
		Expect(log1[4]).To(BeEquivalentTo(6)) // I2 retires one cycle later
	})
})

var _ = Describe("Scenario S4: dispatch-queue backpressure", func() {
	It("queues the excess instructions and still retires all of them", func() {
		cfg := tomasulo.Config{CDBSlots: 8, FUCounts: [3]uint64{1, 1, 1}, FetchWidth: 4}
		var insts []tomasulo.Instruction
		for i := 0; i < 10; i++ {
			insts = append(insts, tomasulo.Instruction{OpClass: 0, Src: [2]int32{-1, -1}, Dest: -1})
		}
		sim := newSim(cfg, insts)
		stats := sim.Run()

		Expect(stats.RetiredInstructions).To(BeEquivalentTo(10))
		Expect(stats.MaxDispSize).To(BeNumerically(">=", 4))

		// All ten instructions compete for the single type-0 functional
		// unit, so later ones stall in dispatch and in scheduling; only
		// the fetch->dispatch-predicted and execute->state-update legs
		// are exact +1 relationships regardless of that contention.
		var prevState uint64
		for tag := uint32(0); tag < 10; tag++ {
			log := sim.CycleLog(tag)
			Expect(log[0]).To(BeNumerically(">", 0))
			Expect(log[1]).To(Equal(log[0] + 1))
			Expect(log[2]).To(BeNumerically(">", log[1]))
			Expect(log[3]).To(BeNumerically(">", log[2]))
			Expect(log[4]).To(Equal(log[3] + 1))
			if tag > 0 {
				Expect(log[4]).To(BeNumerically(">=", prevState))
			}
			prevState = log[4]
		}
	})
})

var _ = Describe("Scenario S5: op-class remap", func() {
	It("schedules a -1 op-class instruction onto a type-1 functional unit", func() {
		// Only type 1 has a functional unit, so the instruction can only ever
		// fire if it is remapped to type 1. If the remap did not happen,
		// scheduling would never succeed and the loop below would run
		// away; bounding it turns that failure mode into a test failure
		// instead of a hang.
		cfg := tomasulo.Config{CDBSlots: 2, FUCounts: [3]uint64{0, 1, 0}, FetchWidth: 1}
		insts := []tomasulo.Instruction{
			{OpClass: -1, Src: [2]int32{-1, -1}, Dest: 0},
		}
		sim := newSim(cfg, insts)

		for cycles := 0; !sim.Done() && cycles < 20; cycles++ {
			sim.Step()
		}

		Expect(sim.Done()).To(BeTrue())
		Expect(sim.CycleLog(0)).To(Equal([5]uint64{1, 2, 3, 4, 5}))
	})
})

var _ = Describe("Scenario S6: instruction without a destination register", func() {
	It("retires normally without touching the register-status table", func() {
		cfg := tomasulo.Config{CDBSlots: 1, FUCounts: [3]uint64{1, 0, 0}, FetchWidth: 1}
		insts := []tomasulo.Instruction{
			{OpClass: 0, Src: [2]int32{-1, -1}, Dest: -1},
		}
		sim := newSim(cfg, insts)
		stats := sim.Run()

		Expect(stats.RetiredInstructions).To(BeEquivalentTo(1))
		Expect(sim.CycleLog(0)).To(Equal([5]uint64{1, 2, 3, 4, 5}))
	})
})
