// Package trace provides the instruction-trace source the simulator
// fetches from. The original design's read_instruction is a C pointer-
// out/bool-return function; the Go-idiomatic equivalent here is a small
// Reader interface returning (Instruction, error) with io.EOF signaling
// end-of-stream, and one concrete implementation that parses a plain-text
// trace file.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/tomasim/tomasulo"
)

// FileReader implements tomasulo.Reader over a plain-text trace file:
// one instruction per line, whitespace-separated fields
// "address op_class src1 src2 dest", using -1 for "no source"/"no
// destination". Lines starting with '#' and blank lines are skipped.
//
// The whole file is parsed eagerly by NewFileReader rather than lazily
// by Next, so that a malformed trace is rejected at the boundary, before
// the simulator ever starts: per the core's error-handling design,
// trace well-formedness is the simulator's precondition, not something
// it should discover mid-run.
type FileReader struct {
	instructions []tomasulo.Instruction
	pos          int
}

// NewFileReader opens path and parses it into a FileReader. It fails
// fast on any malformed line.
func NewFileReader(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := &FileReader{}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		inst, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("trace file %s line %d: %w", path, lineNum, err)
		}
		r.instructions = append(r.instructions, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	return r, nil
}

// parseLine parses one "address op_class src1 src2 dest" trace line.
func parseLine(line string) (tomasulo.Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return tomasulo.Instruction{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	values := make([]int64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return tomasulo.Instruction{}, fmt.Errorf("field %d %q: %w", i, field, err)
		}
		values[i] = v
	}

	return tomasulo.Instruction{
		Address: uint32(values[0]),
		OpClass: int32(values[1]),
		Src:     [2]int32{int32(values[2]), int32(values[3])},
		Dest:    int32(values[4]),
	}, nil
}

// Next returns the next instruction in the trace, or io.EOF once
// exhausted.
func (r *FileReader) Next() (tomasulo.Instruction, error) {
	if r.pos >= len(r.instructions) {
		return tomasulo.Instruction{}, io.EOF
	}
	inst := r.instructions[r.pos]
	r.pos++
	return inst, nil
}

// Len returns the total number of instructions in the trace.
func (r *FileReader) Len() int {
	return len(r.instructions)
}
