// Package dict implements the form store and morpheme store: flat,
// immutable-after-build arrays with stable integer indices, shared
// read-only across every concurrent analysis call.
//
// Generalizes a string-keyed lemmatizer field layout (separate maps for
// models, lemmas, desinences, radicals, irregulars) into index-stable
// arrays instead: the trie needs integer FormIDs to put in its payload
// slots, and the Viterbi cells need integer MorphIDs they can pack into
// a fixed-size struct rather than carry string keys through the hot path.
package dict

import (
	"github.com/kiwi-go/kiwi/internal/feature"
	"github.com/kiwi-go/kiwi/internal/postag"
)

// FormID indexes into a FormStore. FormID 0..postag.DefaultTagSize-1 are
// reserved for the tag-class sentinels the lattice builder resolves by
// tag rather than by trie lookup.
type FormID uint32

// MorphID indexes into a MorphStore. MorphID 0 is the unknown/default
// sentinel; MorphID 1..postag.Count are the default-morpheme-per-tag
// table, indexed by tag+1.
type MorphID uint32

// NoMorph and NoForm are the sentinel "absent" ids, distinguished from a
// valid 0 index by context (FormID/MorphID 0 is itself meaningful — see
// above) — callers that need an explicit "no id" use these named
// constants instead of a bare 0 so the intent is visible at the call site.
const (
	NoMorph = MorphID(^uint32(0))
	NoForm  = FormID(^uint32(0))
)

// FormFlags are per-Form bit flags.
type FormFlags uint8

const (
	FlagNone FormFlags = 0
	// FlagSpecial marks a Form as one of the tag-class sentinels
	// (punctuation/digit/Latin/Han/...), resolved by tag, not by trie
	// lookup.
	FlagSpecial FormFlags = 1 << iota
)

// Form is an immutable jamo sequence with its ordered list of candidate
// morphemes and the phonological conditions a preceding context must
// satisfy to use it.
type Form struct {
	Jamo       []uint16
	Candidates []MorphID
	Vowel      feature.CondVowel
	Polarity   feature.CondPolarity
	Hash       uint64
	Flags      FormFlags
}

// Chunk is a sub-morpheme inside a composite morpheme, with its character
// span inside the composite form.
type Chunk struct {
	Morph      MorphID
	Begin, End uint8
}

// Morpheme is one dictionary entry: a tag, its backing surface form, and
// the scoring/binding metadata the path evaluator consults.
type Morpheme struct {
	Tag        postag.Tag
	FormID     FormID   // backing Form, or NoForm if InlineJamo is used instead
	InlineJamo []uint16 // used when the morpheme has no backing Form entry

	Vowel    feature.CondVowel
	Polarity feature.CondPolarity

	Complex bool
	Saisiot bool

	// CombineSocket != 0 means this morpheme is a partial token that must
	// bind to a compatible partner via matching sockets, modeling
	// irregular conjugation.
	CombineSocket uint8
	// Combined is the absolute MorphID of the canonical combined form,
	// resolved from the on-disk self-relative offset at load time. NoMorph
	// if this morpheme does not participate in combine-socket binding.
	Combined MorphID

	Chunks []Chunk

	UserScore    float32
	LMMorphemeID uint32
	SenseID      uint8
	Dialect      uint8
}

// Surface returns the morpheme's own jamo sequence: its backing Form's
// jamo if FormID is set, else InlineJamo.
func (m *Morpheme) Surface(forms *FormStore) []uint16 {
	if m.FormID != NoForm {
		return forms.At(m.FormID).Jamo
	}
	return m.InlineJamo
}

// FormStore is the immutable, shared array of Form records.
type FormStore struct {
	forms []Form
}

// NewFormStore builds a FormStore from an already-assembled, globally
// sorted slice of forms. Sorting (so that trie matching reduces to a
// lexicographic comparison) is the caller's
// responsibility — Load keeps the order the model file stores forms in,
// and internal/trie's builder neither requires nor imposes an order; tests
// may hand in any order that
// is internally consistent with the FormIDs they reference.
func NewFormStore(forms []Form) *FormStore {
	return &FormStore{forms: forms}
}

// Len returns the number of forms in the store.
func (s *FormStore) Len() int { return len(s.forms) }

// At returns the Form at id. Panics on an out-of-range id, matching the
// "builder-owned, validated once at load time" contract: a bad FormID
// past this point is an AnalyzerInternal bug, not a recoverable input.
func (s *FormStore) At(id FormID) *Form { return &s.forms[id] }

// MorphStore is the immutable, shared array of Morpheme records.
type MorphStore struct {
	morphs []Morpheme
	// defaultByTag[tag] is the default-morpheme MorphID for that tag
	// (morph index tag+1), used by the lattice builder for unknown-form
	// fallback candidates.
	defaultByTag [postag.Count]MorphID
}

// NewMorphStore builds a MorphStore from an already-assembled slice whose
// index 0 is the unknown sentinel and whose indices 1..postag.Count are
// the default-morpheme-per-tag table.
func NewMorphStore(morphs []Morpheme) *MorphStore {
	s := &MorphStore{morphs: morphs}
	for i := range s.defaultByTag {
		s.defaultByTag[i] = NoMorph
	}
	for i := 1; i <= postag.Count && i < len(morphs); i++ {
		tag := morphs[i].Tag
		s.defaultByTag[tag] = MorphID(i)
	}
	return s
}

// Len returns the number of morphemes in the store, including the
// sentinel at index 0.
func (s *MorphStore) Len() int { return len(s.morphs) }

// At returns the Morpheme at id.
func (s *MorphStore) At(id MorphID) *Morpheme { return &s.morphs[id] }

// DefaultForTag returns the default-morpheme MorphID for tag, or NoMorph
// if the store has none registered (the unknown sentinel, MorphID 0,
// should be used as the fallback in that case).
func (s *MorphStore) DefaultForTag(tag postag.Tag) MorphID {
	return s.defaultByTag[tag]
}

// Unknown returns the MorphID of the unknown/default sentinel (index 0).
func (s *MorphStore) Unknown() MorphID { return 0 }

// SentinelFormID returns the reserved FormID the lattice builder resolves
// a character-class run to by tag, bypassing trie lookup entirely: form
// indices 0..(special-tag-count) are reserved for the tag-class
// sentinels. The on-disk form table places these first, so the mapping
// is simply the tag's own numeric value.
func SentinelFormID(tag postag.Tag) FormID { return FormID(tag) }

