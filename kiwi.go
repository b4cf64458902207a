// Package kiwi is the analyzer façade: it owns the immutable,
// builder-time-loaded model (Form/Morpheme stores, frozen trie, language
// model) and exposes Analyze/AnalyzeAsync/SplitIntoSents/FindMorpheme,
// chunking input at sentence-final punctuation and stitching the
// per-chunk normalize-lattice-search-assemble pipeline runs back
// together.
//
// Follows a "load once, expose a small method set over the loaded data"
// shape, generalized from a single-threaded text lemmatizer into a
// pooled, cancellable analyzer over a much larger on-disk model.
package kiwi

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/kiwi-go/kiwi/internal/assemble"
	"github.com/kiwi-go/kiwi/internal/dict"
	"github.com/kiwi-go/kiwi/internal/jamo"
	"github.com/kiwi-go/kiwi/internal/klog"
	"github.com/kiwi-go/kiwi/internal/lattice"
	"github.com/kiwi-go/kiwi/internal/lm"
	"github.com/kiwi-go/kiwi/internal/modelfile"
	"github.com/kiwi-go/kiwi/internal/path"
	"github.com/kiwi-go/kiwi/internal/postag"
	"github.com/kiwi-go/kiwi/internal/scratch"
	"github.com/kiwi-go/kiwi/internal/trie"
)

// AnalyzeResult and TokenInfo are public aliases for the assemble package's
// output types, so callers outside this module never need to import an
// internal package just to name the shape Analyze returns.
type AnalyzeResult = assemble.Result
type TokenInfo = assemble.TokenInfo

// Kiwi is the analyzer handle: the builder-owned, immutable model plus a
// fixed worker pool for AnalyzeAsync. The zero value is not usable; build
// one with New.
type Kiwi struct {
	forms  *dict.FormStore
	morphs *dict.MorphStore
	trie   *trie.Trie
	lm     *lm.Model
	dir    *modelfile.Directory

	buildOpts BuildOption
	latt      lattice.Options
	pathOpts  path.Options
	asm       assemble.Options

	pool *workerPool
}

// New loads a model directory and returns a ready-to-use Kiwi. arch
// selects the trie's Aho-Corasick dispatch variant ("auto", "scalar", or
// "simd"); numThreads sizes the AnalyzeAsync worker pool (0 or 1 means
// analysis always runs synchronously on the caller's goroutine).
func New(modelDir string, arch string, numThreads int, buildOpts BuildOption) (*Kiwi, error) {
	log := klog.Component("kiwi")

	dir, err := modelfile.Open(modelDir)
	if err != nil {
		return nil, err
	}
	forms, morphs, err := dict.Load(dir)
	if err != nil {
		dir.Close()
		return nil, err
	}
	model, err := lm.Load(dir.LM)
	if err != nil {
		dir.Close()
		return nil, err
	}

	tr := buildTrie(forms)
	tr.SetArch(arch)
	log.Info().Int("forms", forms.Len()).Int("morphs", morphs.Len()).Int("trieNodes", tr.NumNodes()).Msg("model loaded")

	k := &Kiwi{
		forms:     forms,
		morphs:    morphs,
		trie:      tr,
		lm:        model,
		dir:       dir,
		buildOpts: buildOpts,
		latt:      lattice.DefaultOptions,
		pathOpts:  path.DefaultOptions,
		asm:       assemble.DefaultOptions,
	}
	k.asm.IntegrateAllomorph = buildOpts.has(BuildIntegrateAllomorph)
	k.pool = newWorkerPool(numThreads)
	return k, nil
}

// buildTrie inserts every Form's jamo sequence into a fresh builder and
// freezes it. Forms with no jamo (pure-sentinel entries at indices
// 0..DefaultTagSize-1) are skipped — they are never matched against,
// only referenced as synthesized-node fallbacks.
func buildTrie(forms *dict.FormStore) *trie.Trie {
	b := trie.NewBuilder()
	for i := 0; i < forms.Len(); i++ {
		id := dict.FormID(i)
		f := forms.At(id)
		if len(f.Jamo) == 0 {
			continue
		}
		b.Insert(f.Jamo, id)
	}
	return b.Freeze()
}

// Close releases the mmapped model sections. The Kiwi handle must not be
// used after Close returns.
func (k *Kiwi) Close() error {
	return k.dir.Close()
}

// Analyze runs the full normalize-lattice-search-assemble pipeline and
// returns up to topN candidate results, sorted by score descending. It
// never returns an error: empty input yields a single empty-token
// result, and a chunk with no finite-score path is downgraded to a
// single UNK token rather than failing.
func (k *Kiwi) Analyze(text string, topN int, opt Match) []assemble.Result {
	if strings.TrimSpace(text) == "" {
		return []assemble.Result{{Tokens: nil, Score: 0}}
	}
	if topN < 1 {
		topN = 1
	}

	chunks := splitIntoChunks(text, opt)
	var special path.SpecialState
	perChunk := make([][]assemble.Result, len(chunks))
	for i, c := range chunks {
		perChunk[i] = k.analyzeChunk(text, c, topN, opt, &special)
	}
	return stitchChunks(perChunk, topN)
}

// analyzeChunk runs the full pipeline on one chunk of text and returns
// its top-N results, falling back to a single UNK token covering the
// chunk when lattice construction yields no matches or path search finds
// no finite-score path, or when any stage panics — a total per-chunk
// failure policy.
func (k *Kiwi) analyzeChunk(text string, c span, topN int, opt Match, special *path.SpecialState) (results []assemble.Result) {
	defer func() {
		if r := recover(); r != nil {
			results = []assemble.Result{unkResult(text, c)}
		}
	}()
	p := scratch.Acquire()
	defer scratch.Release(p)

	norm := jamo.Normalize(text[c.byteStart:c.byteEnd])
	if opt.has(MatchNormalizeCoda) {
		norm = jamo.NormalizeCoda(norm)
	}
	p.Jamo = append(p.Jamo[:0], norm.Jamo...)
	p.PosMap = append(p.PosMap[:0], norm.PosMap...)
	for i := range p.PosMap {
		p.PosMap[i] += c.utf16Start
	}

	if len(p.Jamo) == 0 {
		return []assemble.Result{unkResult(text, c)}
	}

	g := lattice.Build(p.Jamo, k.forms, k.trie, latticeOptionsFor(k.latt, opt))

	pathOpts := k.pathOpts
	pathOpts.TopN = topN
	pathOpts.InitialSpecial = *special
	cells := path.Evaluate(g, p.Jamo, k.forms, k.morphs, k.lm, pathOpts)
	if len(cells) == 0 {
		return []assemble.Result{unkResult(text, c)}
	}

	results = assemble.Assemble(cells, p.Jamo, p.PosMap, k.forms, k.morphs, assembleOptionsFor(k.asm, opt))
	*special = cells[0].Special
	return results
}

// latticeOptionsFor derives this call's lattice.Options from the
// builder-time base (its construction-time tunables carry over
// unchanged) and opt's pattern-matcher bits, so a caller asking for
// MatchURL without MatchMention doesn't pay for a scanner it didn't
// request.
func latticeOptionsFor(base lattice.Options, opt Match) lattice.Options {
	base.MatchURL = opt.has(MatchURL)
	base.MatchEmail = opt.has(MatchEmail)
	base.MatchHashtag = opt.has(MatchHashtag)
	base.MatchMention = opt.has(MatchMention)
	base.MatchSerial = opt.has(MatchSerial)
	base.MatchEmoji = opt.has(MatchEmoji)
	base.MatchZCoda = opt.has(MatchZCoda)
	return base
}

// assembleOptionsFor derives this call's assemble.Options the same way:
// the builder-time IntegrateAllomorph setting carries over, the
// per-call affix re-merge passes follow opt.
func assembleOptionsFor(base assemble.Options, opt Match) assemble.Options {
	base.JoinNounPrefix = opt.has(MatchJoinNounPrefix)
	base.JoinNounSuffix = opt.has(MatchJoinNounSuffix)
	base.JoinVerbSuffix = opt.has(MatchJoinVerbSuffix)
	base.JoinAdjSuffix = opt.has(MatchJoinAdjSuffix)
	return base
}

func unkResult(text string, c span) assemble.Result {
	units := c.utf16End - c.utf16Start
	return assemble.Result{
		Tokens: []assemble.TokenInfo{{
			Form:     text[c.byteStart:c.byteEnd],
			Tag:      postag.Unknown,
			Position: c.utf16Start,
			Length:   units,
		}},
		Score: negInf,
	}
}

// negInf is the score a totally failed chunk's UNK fallback carries.
var negInf = float32(math.Inf(-1))

// stitchChunks concatenates each chunk's winning token stream in order,
// summing scores, and re-numbers WordPosition/SentPosition across the
// whole text.
func stitchChunks(perChunk [][]assemble.Result, topN int) []assemble.Result {
	if len(perChunk) == 0 {
		return []assemble.Result{{Tokens: nil, Score: 0}}
	}
	if len(perChunk) == 1 {
		return perChunk[0]
	}

	out := make([]assemble.Result, topN)
	for n := 0; n < topN; n++ {
		var tokens []assemble.TokenInfo
		var score float32
		wordBase, sentBase := 0, 0
		for _, chunkResults := range perChunk {
			r := chunkResults[0]
			if n < len(chunkResults) {
				r = chunkResults[n]
			}
			for _, t := range r.Tokens {
				t.WordPosition += wordBase
				t.SentPosition += sentBase
				tokens = append(tokens, t)
			}
			if len(r.Tokens) > 0 {
				wordBase = tokens[len(tokens)-1].WordPosition + 1
				sentBase = tokens[len(tokens)-1].SentPosition + 1
			}
			score += r.Score
		}
		out[n] = assemble.Result{Tokens: tokens, Score: score}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// SplitIntoSents returns the (start, end) UTF-16 character spans of each
// sentence in text. It runs the same analysis pipeline
// as Analyze and groups tokens by their resolved SentPosition.
func (k *Kiwi) SplitIntoSents(text string, opt Match) [][2]int {
	results := k.Analyze(text, 1, opt)
	if len(results) == 0 || len(results[0].Tokens) == 0 {
		return nil
	}
	toks := results[0].Tokens

	var spans [][2]int
	start, cur := toks[0].Position, toks[0].SentPosition
	end := toks[0].Position + toks[0].Length
	for _, t := range toks[1:] {
		if t.SentPosition != cur {
			spans = append(spans, [2]int{start, end})
			start = t.Position
			cur = t.SentPosition
		}
		end = t.Position + t.Length
	}
	spans = append(spans, [2]int{start, end})
	return spans
}

// FindMorpheme looks up a morpheme by its surface form, optionally
// filtered to a tag. It first tries an exact form match,
// falling back to a prefix match over the dictionary's forms when none
// is found.
func (k *Kiwi) FindMorpheme(form string, tag postag.Tag) (dict.MorphID, bool) {
	norm := jamo.Normalize(form)

	if id, ok := k.findMorphemeExact(norm.Jamo, tag); ok {
		return id, true
	}
	return k.findMorphemePrefix(norm.Jamo, tag)
}

func (k *Kiwi) findMorphemeExact(jamoSeq []uint16, tag postag.Tag) (dict.MorphID, bool) {
	for i := 0; i < k.forms.Len(); i++ {
		f := k.forms.At(dict.FormID(i))
		if !equalJamo(f.Jamo, jamoSeq) {
			continue
		}
		if id, ok := firstCandidateForTag(k.morphs, f.Candidates, tag); ok {
			return id, true
		}
	}
	return dict.NoMorph, false
}

func (k *Kiwi) findMorphemePrefix(jamoSeq []uint16, tag postag.Tag) (dict.MorphID, bool) {
	for i := 0; i < k.forms.Len(); i++ {
		f := k.forms.At(dict.FormID(i))
		if len(f.Jamo) < len(jamoSeq) || !equalJamo(f.Jamo[:len(jamoSeq)], jamoSeq) {
			continue
		}
		if id, ok := firstCandidateForTag(k.morphs, f.Candidates, tag); ok {
			return id, true
		}
	}
	return dict.NoMorph, false
}

func firstCandidateForTag(morphs *dict.MorphStore, candidates []dict.MorphID, tag postag.Tag) (dict.MorphID, bool) {
	for _, id := range candidates {
		if tag == postag.Unknown || morphs.At(id).Tag == tag {
			return id, true
		}
	}
	return dict.NoMorph, false
}

func equalJamo(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Future is the handle AnalyzeAsync returns: Get blocks until the
// background worker has finished, returning the same result Analyze
// would have produced synchronously.
type Future struct {
	done chan struct{}
	res  []assemble.Result
}

// Get blocks until the analysis completes or ctx is cancelled. A
// cancelled ctx returns (nil, ctx.Err()); the background worker itself
// keeps running to completion regardless — there is no cancellation
// mid-Viterbi.
func (f *Future) Get(ctx context.Context) ([]assemble.Result, error) {
	select {
	case <-f.done:
		return f.res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AnalyzeAsync submits one Analyze call to the fixed worker pool and
// returns immediately with a Future: the pool queues closures, each
// worker runs the full pipeline on its own thread-local scratch, and
// results come back through the future. With no pool configured
// (numThreads <= 1), it runs synchronously and returns an
// already-resolved Future.
func (k *Kiwi) AnalyzeAsync(text string, topN int, opt Match) *Future {
	f := &Future{done: make(chan struct{})}
	k.pool.submit(func() {
		f.res = k.Analyze(text, topN, opt)
		close(f.done)
	})
	return f
}

// AnalyzeStream runs Analyze over every element of texts concurrently on
// the pool, but delivers results on the returned channel strictly in
// input order: each submitted index is tagged (here, implicitly, by its
// position in futures), results are buffered, and released in
// increasing index order.
func (k *Kiwi) AnalyzeStream(ctx context.Context, texts []string, topN int, opt Match) <-chan []assemble.Result {
	out := make(chan []assemble.Result)
	futures := make([]*Future, len(texts))
	for i, text := range texts {
		futures[i] = k.AnalyzeAsync(text, topN, opt)
	}

	go func() {
		defer close(out)
		for _, f := range futures {
			res, err := f.Get(ctx)
			if err != nil {
				return
			}
			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
