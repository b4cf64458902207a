package dict

import (
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/kiwi-go/kiwi/internal/feature"
	"github.com/kiwi-go/kiwi/internal/kerr"
	"github.com/kiwi-go/kiwi/internal/modelfile"
	"github.com/kiwi-go/kiwi/internal/postag"
)

// Load decodes a Directory's Form and Morph sections into a FormStore and
// MorphStore. It generalizes a loadModels/parseModel idiom — accumulate
// fields for one record, flush into the store, repeat — to a binary
// cursor over a modelfile.Reader instead of a directive-keyed text line.
//
// On-disk combine-socket offsets are self-relative (the record stores how
// far forward/back its partner sits, so the model file stays relocatable);
// Load resolves every one to an absolute MorphID before returning, so
// callers never see a relative offset.
func Load(dir *modelfile.Directory) (*FormStore, *MorphStore, error) {
	forms, err := loadForms(dir.Form.Body())
	if err != nil {
		return nil, nil, err
	}
	morphs, err := loadMorphs(dir.Morph.Body(), len(forms))
	if err != nil {
		return nil, nil, err
	}
	return NewFormStore(forms), NewMorphStore(morphs), nil
}

// loadForms reads the FormRecord stream: count, then for each record a
// jamo-length-prefixed jamo array, a candidate-count-prefixed MorphID
// array, vowel/polarity bytes and a flags byte. The hash is recomputed
// from the jamo at load time with murmur3 rather than trusted from disk,
// so a hand-edited or truncated model file cannot desync Form.Hash from
// Form.Jamo.
func loadForms(body []byte) ([]Form, error) {
	r := modelfile.NewReader(body)
	count := int(r.U32())
	forms := make([]Form, count)

	for i := 0; i < count; i++ {
		jamoLen := int(r.U16())
		jamo := r.U16Slice(jamoLen)

		candCount := int(r.U16())
		rawCands := r.U32Slice(candCount)
		cands := make([]MorphID, candCount)
		for j, c := range rawCands {
			cands[j] = MorphID(c)
		}

		vowel := feature.CondVowel(r.U8())
		polarity := feature.CondPolarity(r.U8())
		flags := FormFlags(r.U8())

		forms[i] = Form{
			Jamo:       jamo,
			Candidates: cands,
			Vowel:      vowel,
			Polarity:   polarity,
			Hash:       hashJamo(jamo),
			Flags:      flags,
		}
	}
	if err := r.Err(); err != nil {
		return nil, kerr.New(kerr.ModelLoad, "decode forms.bin", err)
	}
	return forms, nil
}

// loadMorphs reads the MorphemeRecord stream. numForms bounds FormID
// validation: a record claiming a FormID past the form table is a
// corrupt-model error, caught here rather than as an out-of-range panic
// the first time the lattice builder dereferences it.
func loadMorphs(body []byte, numForms int) ([]Morpheme, error) {
	r := modelfile.NewReader(body)
	count := int(r.U32())
	morphs := make([]Morpheme, count)
	// relOffset[i] holds the on-disk self-relative combine partner offset
	// for morphs[i], 0 meaning "no partner" — resolved to an absolute
	// MorphID in a second pass once every record has been read, since a
	// forward-relative offset may point past records not yet decoded.
	relOffset := make([]int32, count)

	for i := 0; i < count; i++ {
		tag := postag.Tag(r.U8())
		formID := FormID(r.U32())
		hasForm := r.U8() != 0

		var inlineJamo []uint16
		if !hasForm {
			n := int(r.U16())
			inlineJamo = r.U16Slice(n)
		} else if int(formID) >= numForms {
			return nil, kerr.New(kerr.ModelLoad, "decode morphemes.bin",
				fmt.Errorf("morpheme %d: form id %d out of range (have %d forms)", i, formID, numForms))
		}

		vowel := feature.CondVowel(r.U8())
		polarity := feature.CondPolarity(r.U8())
		isComplex := r.U8() != 0
		saisiot := r.U8() != 0
		socket := r.U8()
		relOffset[i] = r.I32()

		chunkCount := int(r.U8())
		chunks := make([]Chunk, chunkCount)
		for c := 0; c < chunkCount; c++ {
			chunks[c] = Chunk{
				Morph: MorphID(r.U32()),
				Begin: r.U8(),
				End:   r.U8(),
			}
		}

		userScore := r.F32()
		lmID := r.U32()
		sense := r.U8()
		dialect := r.U8()

		fid := formID
		if !hasForm {
			fid = NoForm
		}
		morphs[i] = Morpheme{
			Tag:           tag,
			FormID:        fid,
			InlineJamo:    inlineJamo,
			Vowel:         vowel,
			Polarity:      polarity,
			Complex:       isComplex,
			Saisiot:       saisiot,
			CombineSocket: socket,
			Combined:      NoMorph,
			Chunks:        chunks,
			UserScore:     userScore,
			LMMorphemeID:  lmID,
			SenseID:       sense,
			Dialect:       dialect,
		}
	}
	if err := r.Err(); err != nil {
		return nil, kerr.New(kerr.ModelLoad, "decode morphemes.bin", err)
	}

	for i, off := range relOffset {
		if off == 0 {
			continue
		}
		target := i + int(off)
		if target < 0 || target >= count {
			return nil, kerr.New(kerr.ModelLoad, "resolve combine socket",
				fmt.Errorf("morpheme %d: relative offset %d points outside table (size %d)", i, off, count))
		}
		morphs[i].Combined = MorphID(target)
	}
	return morphs, nil
}

func hashJamo(jamo []uint16) uint64 {
	b := make([]byte, len(jamo)*2)
	for i, j := range jamo {
		b[2*i] = byte(j)
		b[2*i+1] = byte(j >> 8)
	}
	return murmur3.Sum64(b)
}
