// Package modelfile reads the on-disk model directory layout described in
// : a morpheme table, a form table, a packed Kneser-Ney language
// model, and optional skip-bigram / history-transformer sections. All
// multi-byte fields are little-endian; every file starts with a 4-byte
// magic tag and a uint16 version.
//
// Files are mapped with github.com/edsrzf/mmap-go rather than read into a
// heap buffer, so a multi-hundred-megabyte model costs one mmap syscall
// per file at Kiwi.New time instead of a copy — the direct generalization
// of other_examples/SteosOfficial-SteosMorphy's mmap-backed analyzer
// loading, the closest domain match in the retrieved pack.
package modelfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"

	"github.com/kiwi-go/kiwi/internal/kerr"
)

// Magic tags for each section file: every file is versioned by a magic
// 4-byte tag plus a uint16 version at file start.
var (
	MagicMorph = [4]byte{'K', 'W', 'M', 'O'}
	MagicForm  = [4]byte{'K', 'W', 'F', 'O'}
	MagicLM    = [4]byte{'K', 'W', 'L', 'M'}
	MagicSkip  = [4]byte{'K', 'W', 'S', 'B'}
	MagicHist  = [4]byte{'K', 'W', 'H', 'T'}
)

// CurrentVersion is the only version this reader accepts. A mismatch is a
// kerr.ModelLoad error, never a silent best-effort read.
const CurrentVersion = 1

// Section is a single mmapped model file, positioned just past its header.
type Section struct {
	Magic   [4]byte
	Version uint16
	mapping mmap.MMap
	data    []byte // the whole mapped file, header included
	body    []byte // data[6:], i.e. everything after magic+version
}

// Body returns the section's payload (everything after the 6-byte header).
func (s *Section) Body() []byte { return s.body }

// Close unmaps the section's backing file. Sections are owned by the
// Directory that opened them and are closed together via Directory.Close.
func (s *Section) Close() error {
	if s.mapping == nil {
		return nil
	}
	return s.mapping.Unmap()
}

// OpenSection mmaps path, validates its magic tag against want, and
// returns a Section positioned past the header.
func OpenSection(path string, want [4]byte) (*Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, kerr.New(kerr.ModelLoad, "open "+path, err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, kerr.New(kerr.ModelLoad, "mmap "+path, err)
	}
	if len(m) < 6 {
		m.Unmap()
		return nil, kerr.New(kerr.ModelLoad, "read header "+path, fmt.Errorf("file too short (%d bytes)", len(m)))
	}

	var magic [4]byte
	copy(magic[:], m[0:4])
	if magic != want {
		m.Unmap()
		return nil, kerr.New(kerr.ModelLoad, "check magic "+path,
			fmt.Errorf("got %q, want %q", magic, want))
	}
	version := binary.LittleEndian.Uint16(m[4:6])
	if version != CurrentVersion {
		m.Unmap()
		return nil, kerr.New(kerr.ModelLoad, "check version "+path,
			fmt.Errorf("got %d, want %d", version, CurrentVersion))
	}

	return &Section{
		Magic:   magic,
		Version: version,
		mapping: m,
		data:    m,
		body:    m[6:],
	}, nil
}

// Directory is an opened model directory: the set of mmapped sections that
// make up one Kiwi model's file layout.
type Directory struct {
	Path string

	Morph *Section // morphemes.bin
	Form  *Section // forms.bin
	LM    *Section // lm.bin

	Skip *Section // skipbigram.bin, optional (nil if absent)
	Hist *Section // historytransform.bin, optional (nil if absent)
}

// Open opens every required section in dir and the optional ones if
// present, returning a ModelLoad error naming the first failure.
func Open(dir string) (*Directory, error) {
	d := &Directory{Path: dir}

	required := []struct {
		file  string
		magic [4]byte
		dst   **Section
	}{
		{"morphemes.bin", MagicMorph, &d.Morph},
		{"forms.bin", MagicForm, &d.Form},
		{"lm.bin", MagicLM, &d.LM},
	}
	for _, r := range required {
		sec, err := OpenSection(filepath.Join(dir, r.file), r.magic)
		if err != nil {
			d.Close()
			return nil, err
		}
		*r.dst = sec
	}

	if _, err := os.Stat(filepath.Join(dir, "skipbigram.bin")); err == nil {
		sec, err := OpenSection(filepath.Join(dir, "skipbigram.bin"), MagicSkip)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.Skip = sec
	}
	if _, err := os.Stat(filepath.Join(dir, "historytransform.bin")); err == nil {
		sec, err := OpenSection(filepath.Join(dir, "historytransform.bin"), MagicHist)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.Hist = sec
	}

	return d, nil
}

// Close unmaps every opened section. Safe to call on a partially
// initialized Directory (e.g. from a failed Open).
func (d *Directory) Close() error {
	var first error
	for _, s := range []*Section{d.Morph, d.Form, d.LM, d.Skip, d.Hist} {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Reader wraps a byte-reader cursor over a Section's body, the idiomatic
// way the fixed-layout records here (MorphemeRecord, FormRecord,
// KNLMHeader, ...) are decoded: stdlib encoding/binary.Read over a
// bytes.Reader, because the record shapes here are bespoke
// (variable-length trailing arrays sized by an earlier field) and no
// general-purpose serialization library (protobuf, sonic, msgpack) can
// express a "length-prefixed, then N packed structs" record without a
// schema this project doesn't otherwise need — see
// DESIGN.md.
type Reader struct {
	r   *bytes.Reader
	err error
}

// NewReader returns a Reader over body.
func NewReader(body []byte) *Reader {
	return &Reader{r: bytes.NewReader(body)}
}

// Err returns the first error encountered by any Read* call.
func (r *Reader) Err() error { return r.err }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return r.r.Len() }

func (r *Reader) read(v any) {
	if r.err != nil {
		return
	}
	r.err = binary.Read(r.r, binary.LittleEndian, v)
}

func (r *Reader) U8() uint8 {
	var v uint8
	r.read(&v)
	return v
}

func (r *Reader) U16() uint16 {
	var v uint16
	r.read(&v)
	return v
}

func (r *Reader) U32() uint32 {
	var v uint32
	r.read(&v)
	return v
}

func (r *Reader) U64() uint64 {
	var v uint64
	r.read(&v)
	return v
}

func (r *Reader) I32() int32 {
	var v int32
	r.read(&v)
	return v
}

func (r *Reader) F32() float32 {
	var v float32
	r.read(&v)
	return v
}

// U16Slice reads n little-endian uint16 values.
func (r *Reader) U16Slice(n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = r.U16()
	}
	return out
}

// U32Slice reads n little-endian uint32 values.
func (r *Reader) U32Slice(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = r.U32()
	}
	return out
}
