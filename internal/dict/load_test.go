package dict

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildForms encodes a minimal forms.bin-shaped byte stream (sans the
// modelfile header, which Load never touches directly — it receives an
// already-opened Section's Body()).
func buildForms(t *testing.T, forms []Form) []byte {
	t.Helper()
	var buf bytes.Buffer
	must := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	must(uint32(len(forms)))
	for _, f := range forms {
		must(uint16(len(f.Jamo)))
		for _, j := range f.Jamo {
			must(j)
		}
		must(uint16(len(f.Candidates)))
		for _, c := range f.Candidates {
			must(uint32(c))
		}
		must(uint8(f.Vowel))
		must(uint8(f.Polarity))
		must(uint8(f.Flags))
	}
	return buf.Bytes()
}

func buildMorphs(t *testing.T, morphs []struct {
	tag           uint8
	formID        uint32
	hasForm       bool
	inline        []uint16
	relOffset     int32
	combineSocket uint8
}) []byte {
	t.Helper()
	var buf bytes.Buffer
	must := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	must(uint32(len(morphs)))
	for _, m := range morphs {
		must(m.tag)
		must(m.formID)
		if m.hasForm {
			must(uint8(1))
		} else {
			must(uint8(0))
			must(uint16(len(m.inline)))
			for _, j := range m.inline {
				must(j)
			}
		}
		must(uint8(0)) // vowel
		must(uint8(0)) // polarity
		must(uint8(0)) // complex
		must(uint8(0)) // saisiot
		must(m.combineSocket)
		must(m.relOffset)
		must(uint8(0)) // chunk count
		must(float32(0))
		must(uint32(0))
		must(uint8(0))
		must(uint8(0))
	}
	return buf.Bytes()
}

func TestLoadFormsRoundTrips(t *testing.T) {
	body := buildForms(t, []Form{
		{Jamo: []uint16{0x1100, 0x1161}, Candidates: []MorphID{1, 2}},
		{Jamo: []uint16{0x1102}, Candidates: []MorphID{3}},
	})
	forms, err := loadForms(body)
	if err != nil {
		t.Fatalf("loadForms: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("len(forms) = %d, want 2", len(forms))
	}
	if len(forms[0].Candidates) != 2 || forms[0].Candidates[1] != 2 {
		t.Errorf("forms[0].Candidates = %v", forms[0].Candidates)
	}
	if forms[0].Hash == 0 {
		t.Error("forms[0].Hash not populated")
	}
	if forms[0].Hash == forms[1].Hash {
		t.Error("distinct jamo hashed to the same value")
	}
}

func TestLoadMorphsResolvesCombineSocket(t *testing.T) {
	body := buildMorphs(t, []struct {
		tag           uint8
		formID        uint32
		hasForm       bool
		inline        []uint16
		relOffset     int32
		combineSocket uint8
	}{
		{tag: 4, formID: 0, hasForm: true, relOffset: 1, combineSocket: 1},
		{tag: 4, formID: 1, hasForm: true, relOffset: -1, combineSocket: 2},
	})
	morphs, err := loadMorphs(body, 2)
	if err != nil {
		t.Fatalf("loadMorphs: %v", err)
	}
	if morphs[0].Combined != 1 {
		t.Errorf("morphs[0].Combined = %d, want 1", morphs[0].Combined)
	}
	if morphs[1].Combined != 0 {
		t.Errorf("morphs[1].Combined = %d, want 0", morphs[1].Combined)
	}
}

func TestLoadMorphsRejectsFormIDOutOfRange(t *testing.T) {
	body := buildMorphs(t, []struct {
		tag           uint8
		formID        uint32
		hasForm       bool
		inline        []uint16
		relOffset     int32
		combineSocket uint8
	}{
		{tag: 4, formID: 5, hasForm: true},
	})
	if _, err := loadMorphs(body, 1); err == nil {
		t.Error("expected an error for an out-of-range form id, got nil")
	}
}

func TestLoadMorphsRejectsBadCombineOffset(t *testing.T) {
	body := buildMorphs(t, []struct {
		tag           uint8
		formID        uint32
		hasForm       bool
		inline        []uint16
		relOffset     int32
		combineSocket uint8
	}{
		{tag: 4, formID: 0, hasForm: true, relOffset: 100},
	})
	if _, err := loadMorphs(body, 1); err == nil {
		t.Error("expected an error for an out-of-range combine offset, got nil")
	}
}
