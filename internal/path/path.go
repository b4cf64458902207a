package path

import (
	"github.com/kiwi-go/kiwi/internal/dict"
	"github.com/kiwi-go/kiwi/internal/feature"
	"github.com/kiwi-go/kiwi/internal/lattice"
	"github.com/kiwi-go/kiwi/internal/lm"
	"github.com/kiwi-go/kiwi/internal/postag"
)

// Options tunes the evaluator ('s tunables).
type Options struct {
	TopN            int
	CutOffThreshold float32
	// IgnoreCondScore is the soft penalty applied to a condition mismatch
	// during the retry pass, instead of rejecting the candidate outright.
	IgnoreCondScore float32
	// InitialSpecial seeds the synthetic start cell's SpecialState, so a
	// chunked façade can carry quote/bullet state across a chunk boundary
	//  instead of always starting a chunk fresh.
	InitialSpecial SpecialState
}

// DefaultOptions holds the tuned default Viterbi search parameters.
var DefaultOptions = Options{
	TopN:            3,
	CutOffThreshold: 5.0,
	IgnoreCondScore: -10,
}

// Evaluate runs per-node Viterbi over g in topological order and returns
// the final sorted cells at the END sentinel (best path first).
func Evaluate(g *lattice.Graph, jamoSeq []uint16, forms *dict.FormStore, morphs *dict.MorphStore, model *lm.Model, opts Options) []*Cell {
	nodeIndex := make(map[*lattice.GraphNode]int, len(g.Nodes))
	for i, n := range g.Nodes {
		nodeIndex[n] = i
	}
	cellsByNode := make([][]*Cell, len(g.Nodes))

	startCell := &Cell{LMState: model.InitialState(), Special: opts.InitialSpecial}
	cellsOf := func(n *lattice.GraphNode) []*Cell {
		if n == lattice.Start {
			return []*Cell{startCell}
		}
		return cellsByNode[nodeIndex[n]]
	}

	for i, n := range g.Nodes {
		cells := evaluateNode(n, jamoSeq, forms, morphs, model, cellsOf, opts, false)
		if len(cells) == 0 {
			cells = evaluateNode(n, jamoSeq, forms, morphs, model, cellsOf, opts, true)
		}
		cellsByNode[i] = cells
	}

	final := newContainer(opts.TopN)
	for _, p := range g.End.Prev {
		for _, c := range cellsOf(p) {
			final.insert(c)
		}
	}
	out := final.writeTo(nil)
	sortCellsDescending(out)
	if len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out
}

// evaluateNode computes every surviving cell at n. ignoreCond turns a
// failed feature-condition match into a soft penalty (the retry pass of
// ) instead of skipping the candidate.
func evaluateNode(n *lattice.GraphNode, jamoSeq []uint16, forms *dict.FormStore, morphs *dict.MorphStore, model *lm.Model, cellsOf func(*lattice.GraphNode) []*Cell, opts Options, ignoreCond bool) []*Cell {
	candidates := candidatesFor(n, forms, morphs)
	curForm := jamoSeq[n.StartPos:n.EndPos]

	cont := newContainer(opts.TopN)
	for _, prevNode := range n.Prev {
		for _, p := range cellsOf(prevNode) {
			prevForm := prevFormOf(p, jamoSeq)
			for _, candID := range candidates {
				cand := morphs.At(candID)

				bound := false
				resultMorph := candID
				if p.CombineSocket != 0 {
					if cand.CombineSocket != p.CombineSocket || len(cand.Chunks) != 0 {
						continue
					}
					if left := morphs.At(p.Morph); left.Combined != dict.NoMorph {
						bound = true
						resultMorph = left.Combined
					}
				}

				penalty := float32(0)
				if !feature.IsMatched(prevForm, cand.Vowel, cand.Polarity) {
					if !ignoreCond {
						continue
					}
					penalty += opts.IgnoreCondScore
				}

				score := p.AccScore + cand.UserScore + penalty

				state := p.LMState
				var firstChunkScore float32
				wids := lmWids(cand, morphs)
				if bound && len(wids) > 0 {
					// cand itself surfaces nothing once bound: the joined
					// morpheme's own LM id replaces the raw right-hand
					// candidate's, same as combined's atomic Chunks == nil
					// case would score if it had been matched directly.
					wids = []uint32{morphs.At(resultMorph).LMMorphemeID}
				}
				for i, wid := range wids {
					var step float32
					state, step = model.Progress(state, wid)
					score += step
					if i == 0 {
						firstChunkScore = step
					}
				}

				prevMorph := &dict.Morpheme{Tag: postag.Unknown}
				if p.GraphNode != nil {
					prevMorph = morphs.At(p.Morph)
				}
				adj := applyRules(prevMorph, cand, prevForm, curForm, p.Special)
				score += adj.delta

				combineSocket := cand.CombineSocket
				spanStart := 0
				if bound {
					combineSocket = 0
					spanStart = p.GraphNode.StartPos
				}
				newCell := &Cell{
					LMState:       state,
					Special:       adj.special,
					Morph:         resultMorph,
					GraphNode:     n,
					AccScore:      score,
					FirstChunk:    firstChunkScore,
					AccTypoCost:   p.AccTypoCost + n.TypoCost,
					Parent:        p,
					CombineSocket: combineSocket,
					Bound:         bound,
					SpanStart:     spanStart,
				}
				cont.insert(newCell)
			}
		}
	}

	max, ok := cont.maxScore()
	if !ok {
		return nil
	}
	var survivors []*Cell
	for _, bucket := range cont.slots {
		if len(bucket) == 0 || bucket[0].AccScore < max-opts.CutOffThreshold {
			continue
		}
		survivors = append(survivors, bucket...)
	}
	return survivors
}

// candidatesFor resolves the morpheme candidate list for a GraphNode:
// either its matched Form's candidates, or the tag-default morpheme for
// a synthesized unknown-form node.
func candidatesFor(n *lattice.GraphNode, forms *dict.FormStore, morphs *dict.MorphStore) []dict.MorphID {
	if n.Unknown {
		if id := morphs.DefaultForTag(n.UnkTag); id != dict.NoMorph {
			return []dict.MorphID{id}
		}
		return []dict.MorphID{morphs.Unknown()}
	}
	return forms.At(n.FormID).Candidates
}

// prevFormOf returns the jamo span the predecessor cell's own GraphNode
// covers, or an empty slice for the synthetic start cell (nothing
// precedes the first word).
func prevFormOf(p *Cell, jamoSeq []uint16) []uint16 {
	if p.GraphNode == nil {
		return nil
	}
	return jamoSeq[p.GraphNode.StartPos:p.GraphNode.EndPos]
}

// lmWids resolves the sequence of LM vocabulary ids a candidate morpheme
// contributes: its own id for an atomic morpheme, or its chunks' ids in
// order for a composite one.
func lmWids(m *dict.Morpheme, morphs *dict.MorphStore) []uint32 {
	if len(m.Chunks) == 0 {
		return []uint32{m.LMMorphemeID}
	}
	wids := make([]uint32, len(m.Chunks))
	for i, c := range m.Chunks {
		wids[i] = morphs.At(c.Morph).LMMorphemeID
	}
	return wids
}

func sortCellsDescending(cells []*Cell) {
	for i := 1; i < len(cells); i++ {
		for j := i; j > 0 && cells[j-1].AccScore < cells[j].AccScore; j-- {
			cells[j-1], cells[j] = cells[j], cells[j-1]
		}
	}
}
