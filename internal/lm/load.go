package lm

import (
	"fmt"

	"github.com/kiwi-go/kiwi/internal/kerr"
	"github.com/kiwi-go/kiwi/internal/modelfile"
	"github.com/kiwi-go/kiwi/internal/postag"
)

// Load decodes an LM section body into a Model. Layout: a quant-table
// header (bit width, table size, the float32 values themselves), the
// unk-id and per-tag fallback table, then the node count and the packed
// node records (numNexts, lower, quantized ll code, quantized gamma
// code), followed by the shared nextKeys/nextDiffs arrays.
func Load(sec *modelfile.Section) (*Model, error) {
	r := modelfile.NewReader(sec.Body())

	bits := r.U8()
	tableSize := int(r.U16())
	llTable := newQuantTable(readFloats(r, tableSize), bits)
	gammaTable := newQuantTable(readFloats(r, tableSize), bits)

	unkID := r.U32()

	var tagFallback [postag.Count]uint32
	fallbackCount := int(r.U16())
	for i := 0; i < fallbackCount; i++ {
		tag := postag.Tag(r.U8())
		id := r.U32()
		if int(tag) < len(tagFallback) {
			tagFallback[tag] = id
		}
	}

	nodeCount := int(r.U32())
	nodes := make([]node, nodeCount)
	totalNexts := 0
	rawLL := make([]uint16, nodeCount)
	rawGamma := make([]uint16, nodeCount)
	for i := 0; i < nodeCount; i++ {
		numNexts := int32(r.U32())
		lower := r.I32()
		rawLL[i] = r.U16()
		rawGamma[i] = r.U16()
		nodes[i] = node{
			numNexts:   numNexts,
			lower:      lower,
			nextOffset: int32(totalNexts),
		}
		totalNexts += int(numNexts)
	}
	for i := range nodes {
		if int(rawLL[i]) >= tableSize || int(rawGamma[i]) >= tableSize {
			return nil, kerr.New(kerr.ModelLoad, "decode lm.bin",
				fmt.Errorf("node %d: quantization code out of range (table size %d)", i, tableSize))
		}
		nodes[i].ll = llTable.dequant(rawLL[i])
		nodes[i].gamma = gammaTable.dequant(rawGamma[i])
	}

	nextKeys := r.U32Slice(totalNexts)
	rawDiffs := r.U32Slice(totalNexts)
	nextDiffs := make([]int32, totalNexts)
	for i, d := range rawDiffs {
		nextDiffs[i] = int32(d)
	}

	if err := r.Err(); err != nil {
		return nil, kerr.New(kerr.ModelLoad, "decode lm.bin", err)
	}
	if nodeCount == 0 {
		return nil, kerr.New(kerr.ModelLoad, "decode lm.bin", fmt.Errorf("empty node table"))
	}

	return New(nodes, nextKeys, nextDiffs, unkID, tagFallback), nil
}

func readFloats(r *modelfile.Reader, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = r.F32()
	}
	return out
}
