package tomasulo

import (
	"io"
	"sort"
)

// fetch draws up to the configured fetch width of instructions from the
// trace source. It is active only in the second half of a cycle.
func (s *Simulator) fetch(firstHalf bool) {
	if firstHalf {
		return
	}

	for f := uint64(0); f < s.cfg.FetchWidth; f++ {
		inst, err := s.reader.Next()
		if err == io.EOF {
			s.doneFetching = true
			break
		}
		if err != nil {
			// The trace source is a precondition the caller should have
			// validated before handing it to the simulator; a parse
			// failure surfacing here is a violated precondition.
			panic(err)
		}

		inst.Tag = s.nextTag
		s.nextTag++

		s.log.newEntry()
		s.log.set(inst.Tag, 0, s.cycle)
		// Pre-record the dispatch cycle now. Dispatch never writes this
		// column, so the log keeps fetch cycle + 1 even when the
		// instruction waits in the dispatch queue for longer.
		s.log.set(inst.Tag, 1, s.cycle+1)

		s.dispatchQ.PushBack(inst)
		s.trace("FETCHED", inst.Tag)
	}

	s.dispatchSizeSum += uint64(s.dispatchQ.Len())
	if uint64(s.dispatchQ.Len()) > s.maxDispSize {
		s.maxDispSize = uint64(s.dispatchQ.Len())
	}
}

// dispatch reserves scheduling-queue slots in the first half and commits
// instructions into reservation stations in the second half.
func (s *Simulator) dispatch(firstHalf bool) {
	if firstHalf {
		capacity := s.schedCap - uint64(s.schedQ.Len())
		size := uint64(s.dispatchQ.Len())
		if size < capacity {
			s.reservedSlots = size
		} else {
			s.reservedSlots = capacity
		}
		return
	}

	for s.reservedSlots > 0 && s.dispatchQ.Len() > 0 {
		inst := s.dispatchQ.PopFront()

		rs := &ReservationStation{
			OpClass: inst.OpClass,
			DestReg: inst.Dest,
			Tag:     inst.Tag,
			Status:  StatusDispatched,
			Stamp:   s.cycle,
		}
		for i := 0; i < 2; i++ {
			src := inst.Src[i]
			if !hasReg(src) || s.regs.IsReady(src) {
				rs.SrcReady[i] = true
			} else {
				rs.SrcTag[i] = s.regs.ProducerTag(src)
				rs.SrcReady[i] = false
			}
		}
		if hasReg(inst.Dest) {
			s.regs.MarkPending(inst.Dest, inst.Tag)
		}

		s.schedQ.Insert(rs)
		s.log.set(inst.Tag, 2, s.cycle+1)
		s.trace("DISPATCHED", inst.Tag)

		s.reservedSlots--
	}
}

// schedule fires ready reservation stations onto free functional units in
// the first half, and forwards CDB broadcasts to waiting sources in the
// second half. Both halves walk the scheduling queue in tag order, so
// lower-tag instructions always win ties for FU and CDB allocation.
func (s *Simulator) schedule(firstHalf bool) {
	s.schedQ.Each(func(rs *ReservationStation) {
		if rs.Status != StatusDispatched || rs.Stamp == s.cycle {
			// Not yet fire-eligible: either it has already fired, or it
			// was dispatched this very cycle and must wait one more.
			return
		}

		if firstHalf {
			if !rs.readyToFire() {
				return
			}
			fuType := effectiveOpClass(rs.OpClass)
			if s.scoreboard.Alloc(fuType, rs.Tag) {
				rs.Status = StatusScheduled
				rs.Stamp = s.cycle
				s.log.set(rs.Tag, 3, s.cycle+1)
				s.trace("SCHEDULED", rs.Tag)
				s.firedCount++
			}
			return
		}

		for _, cdb := range s.cdb.Slots {
			if !cdb.Busy {
				continue
			}
			for i := 0; i < 2; i++ {
				if !rs.SrcReady[i] && cdb.Tag == rs.SrcTag[i] {
					rs.SrcReady[i] = true
				}
			}
		}
	})
}

// execute transitions scheduled stations to executed and arbitrates CDB
// broadcasts. It runs only in the first half.
func (s *Simulator) execute(firstHalf bool) {
	if !firstHalf {
		return
	}

	type executed struct {
		tag     uint32
		opClass int32
	}
	var justExecuted []executed
	for fu := int32(0); fu < NumFUTypes; fu++ {
		for _, tag := range s.scoreboard.OccupiedTags(fu) {
			rs := s.schedQ.Get(tag)
			if rs.Status == StatusScheduled {
				justExecuted = append(justExecuted, executed{tag: tag, opClass: fu})
			}
		}
	}
	// The original inserts into a std::map<uint32_t, ...>, which yields
	// tag order regardless of scoreboard slot order; sort explicitly to
	// reproduce that, since OccupiedTags only guarantees slot order.
	sort.Slice(justExecuted, func(i, j int) bool { return justExecuted[i].tag < justExecuted[j].tag })

	for _, e := range justExecuted {
		rs := s.schedQ.Get(e.tag)
		rs.Status = StatusExecuted
		rs.Stamp = s.cycle
		s.trace("EXECUTED", e.tag)
		s.waiting.PushBack(waitEntry{opClass: e.opClass, tag: e.tag})
	}

	for i := range s.cdb.Slots {
		if s.waiting.Len() == 0 {
			break
		}
		w := s.waiting.PopFront()
		rs := s.schedQ.Get(w.tag)

		cdb := &s.cdb.Slots[i]
		cdb.Busy = false
		if hasReg(rs.DestReg) {
			cdb.Busy = true
			cdb.Tag = rs.Tag
			cdb.Reg = rs.DestReg
			s.regs.MarkReadyIfProducer(rs.DestReg, rs.Tag)
		}

		s.scoreboard.Free(w.opClass, w.tag)

		rs.Status = StatusCompleted
		rs.Stamp = s.cycle
	}
}

// stateUpdate retires reservation stations that completed in a strictly
// earlier cycle. It runs only in the second half, so a station that
// completes this cycle survives one more cycle - long enough for
// schedule's forwarding step, in the cycle after, to have already
// observed its broadcast.
func (s *Simulator) stateUpdate(firstHalf bool) {
	if firstHalf {
		return
	}

	var toRetire []uint32
	s.schedQ.Each(func(rs *ReservationStation) {
		if rs.Status == StatusCompleted && rs.Stamp < s.cycle {
			toRetire = append(toRetire, rs.Tag)
		}
	})
	for _, tag := range toRetire {
		s.log.set(tag, 4, s.cycle)
		s.trace("STATE UPDATE", tag)
		s.schedQ.Erase(tag)
		s.retiredCount++
	}
}
