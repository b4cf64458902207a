package dict

import (
	"testing"

	"github.com/kiwi-go/kiwi/internal/feature"
	"github.com/kiwi-go/kiwi/internal/postag"
)

func TestMorphStoreDefaultForTag(t *testing.T) {
	morphs := make([]Morpheme, postag.Count+1)
	morphs[1] = Morpheme{Tag: postag.NNG}
	morphs[2] = Morpheme{Tag: postag.VV}
	store := NewMorphStore(morphs)

	if got := store.DefaultForTag(postag.NNG); got != 1 {
		t.Errorf("DefaultForTag(NNG) = %d, want 1", got)
	}
	if got := store.DefaultForTag(postag.VV); got != 2 {
		t.Errorf("DefaultForTag(VV) = %d, want 2", got)
	}
	if got := store.DefaultForTag(postag.VA); got != NoMorph {
		t.Errorf("DefaultForTag(VA) = %d, want NoMorph", got)
	}
	if got := store.Unknown(); got != 0 {
		t.Errorf("Unknown() = %d, want 0", got)
	}
}

func TestFormStoreAt(t *testing.T) {
	forms := []Form{
		{Jamo: []uint16{'a'}, Candidates: []MorphID{1}},
		{Jamo: []uint16{'b'}, Candidates: []MorphID{2}, Vowel: feature.CondVowelVowel},
	}
	store := NewFormStore(forms)
	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	if got := store.At(1).Vowel; got != feature.CondVowelVowel {
		t.Errorf("At(1).Vowel = %v, want CondVowelVowel", got)
	}
}

func TestMorphemeSurface(t *testing.T) {
	forms := NewFormStore([]Form{{Jamo: []uint16{0x1100, 0x1161}}})

	withForm := Morpheme{FormID: 0}
	if got := withForm.Surface(forms); len(got) != 2 {
		t.Errorf("Surface via FormID: len = %d, want 2", len(got))
	}

	inline := Morpheme{FormID: NoForm, InlineJamo: []uint16{0x1102}}
	if got := inline.Surface(forms); len(got) != 1 || got[0] != 0x1102 {
		t.Errorf("Surface via InlineJamo = %v, want [0x1102]", got)
	}
}
