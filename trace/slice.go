package trace

import (
	"io"

	"github.com/sarchlab/tomasim/tomasulo"
)

// SliceReader implements tomasulo.Reader over an in-memory slice of
// instructions. It is primarily useful for tests and for callers that
// already have a decoded trace in memory rather than on disk.
type SliceReader struct {
	instructions []tomasulo.Instruction
	pos          int
}

// NewSliceReader returns a SliceReader over insts.
func NewSliceReader(insts []tomasulo.Instruction) *SliceReader {
	return &SliceReader{instructions: insts}
}

// Next returns the next instruction, or io.EOF once exhausted.
func (r *SliceReader) Next() (tomasulo.Instruction, error) {
	if r.pos >= len(r.instructions) {
		return tomasulo.Instruction{}, io.EOF
	}
	inst := r.instructions[r.pos]
	r.pos++
	return inst, nil
}
