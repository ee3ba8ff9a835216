// Package modelfile identifies language model weight files by their header.
//
// It understands the GGUF container (versions 1-3), reading the metadata
// keys that declare the model architecture and name, and recognizes the
// legacy GGML family (ggml, ggmf, ggjt) and LoRA adapters (ggla) by magic
// alone. Nothing beyond the header is read, so checking a multi-gigabyte
// file is cheap.
package modelfile

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"llmchat/internal/fsutil"
)

// Format names a weight file container.
type Format string

const (
	FormatGGUF Format = "gguf"
	FormatGGJT Format = "ggjt"
	FormatGGMF Format = "ggmf"
	FormatGGML Format = "ggml"
	FormatGGLA Format = "ggla"
)

// Magic numbers as read little-endian from the first four bytes.
const (
	magicGGUF uint32 = 0x46554747
	magicGGJT uint32 = 0x67676a74
	magicGGMF uint32 = 0x67676d66
	magicGGML uint32 = 0x67676d6c
	magicGGLA uint32 = 0x67676c61
)

const (
	keyArchitecture = "general.architecture"
	keyName         = "general.name"
	maxStringLen    = 1 << 24
)

var (
	// ErrUnknownFormat means the file does not start with a known magic.
	ErrUnknownFormat = errors.New("unknown model file format")
	// ErrArchitectureMismatch means the file declares a different architecture.
	ErrArchitectureMismatch = errors.New("model architecture mismatch")
	// ErrNotAModel means the file is a valid container that holds no model (LoRA adapter).
	ErrNotAModel = errors.New("file is an adapter, not a model")
)

// Header summarizes what the file header declares.
type Header struct {
	Format       Format `json:"format" yaml:"format"`
	Version      uint32 `json:"version,omitempty" yaml:"version,omitempty"`
	Architecture string `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	TensorCount  uint64 `json:"tensor_count,omitempty" yaml:"tensor_count,omitempty"`
	KVCount      uint64 `json:"kv_count,omitempty" yaml:"kv_count,omitempty"`
	SizeBytes    int64  `json:"size_bytes" yaml:"size_bytes"`
}

// Read opens path and parses its header.
func Read(path string) (Header, error) {
	if err := fsutil.CheckFile(path); err != nil {
		return Header{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	h, err := Parse(f)
	if err != nil {
		return Header{}, errors.Wrapf(err, "parse %s", path)
	}
	if fi, err := f.Stat(); err == nil {
		h.SizeBytes = fi.Size()
	}
	return h, nil
}

// Check reads the header at path and verifies that it holds a model whose
// declared architecture, if any, equals arch (case-insensitive). Legacy GGML
// files carry no architecture metadata and are accepted as-is.
func Check(path, arch string) (Header, error) {
	h, err := Read(path)
	if err != nil {
		return h, err
	}
	if h.Format == FormatGGLA {
		return h, ErrNotAModel
	}
	if h.Architecture != "" && arch != "" && !strings.EqualFold(h.Architecture, arch) {
		return h, errors.Wrapf(ErrArchitectureMismatch, "file declares %q, want %q", h.Architecture, arch)
	}
	return h, nil
}

// Parse decodes a header from r.
func Parse(r io.Reader) (Header, error) {
	br := bufio.NewReader(r)
	var magic uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return Header{}, errors.Wrap(ErrUnknownFormat, "short header")
	}
	switch magic {
	case magicGGUF:
		return parseGGUF(br)
	case magicGGJT, magicGGMF, magicGGLA:
		h := Header{Format: legacyFormat(magic)}
		if err := binary.Read(br, binary.LittleEndian, &h.Version); err != nil {
			return Header{}, errors.Wrap(err, "read version")
		}
		return h, nil
	case magicGGML:
		return Header{Format: FormatGGML}, nil
	default:
		return Header{}, errors.Wrapf(ErrUnknownFormat, "magic 0x%08x", magic)
	}
}

func legacyFormat(magic uint32) Format {
	switch magic {
	case magicGGJT:
		return FormatGGJT
	case magicGGMF:
		return FormatGGMF
	default:
		return FormatGGLA
	}
}

// ggufReader reads GGUF primitives; v1 files use 32-bit lengths and counts.
type ggufReader struct {
	r       *bufio.Reader
	version uint32
	err     error
}

func (g *ggufReader) u32() uint32 {
	var v uint32
	if g.err == nil {
		g.err = binary.Read(g.r, binary.LittleEndian, &v)
	}
	return v
}

func (g *ggufReader) u64() uint64 {
	var v uint64
	if g.err == nil {
		g.err = binary.Read(g.r, binary.LittleEndian, &v)
	}
	return v
}

// count reads a length or count field whose width depends on the version.
func (g *ggufReader) count() uint64 {
	if g.version == 1 {
		return uint64(g.u32())
	}
	return g.u64()
}

func (g *ggufReader) str() string {
	n := g.count()
	if g.err != nil {
		return ""
	}
	if n > maxStringLen {
		g.err = errors.Errorf("string length %d exceeds limit", n)
		return ""
	}
	buf := make([]byte, n)
	_, g.err = io.ReadFull(g.r, buf)
	return string(buf)
}

func (g *ggufReader) skip(n uint64) {
	if g.err == nil {
		_, g.err = g.r.Discard(int(n))
	}
}

// GGUF metadata value types.
const (
	ggufUint8 uint32 = iota
	ggufInt8
	ggufUint16
	ggufInt16
	ggufUint32
	ggufInt32
	ggufFloat32
	ggufBool
	ggufString
	ggufArray
	ggufUint64
	ggufInt64
	ggufFloat64
)

func scalarSize(t uint32) (uint64, bool) {
	switch t {
	case ggufUint8, ggufInt8, ggufBool:
		return 1, true
	case ggufUint16, ggufInt16:
		return 2, true
	case ggufUint32, ggufInt32, ggufFloat32:
		return 4, true
	case ggufUint64, ggufInt64, ggufFloat64:
		return 8, true
	}
	return 0, false
}

// value consumes a value of type t and returns it when it is a string.
func (g *ggufReader) value(t uint32) string {
	if size, ok := scalarSize(t); ok {
		g.skip(size)
		return ""
	}
	switch t {
	case ggufString:
		return g.str()
	case ggufArray:
		elem := g.u32()
		n := g.count()
		if size, ok := scalarSize(elem); ok {
			g.skip(size * n)
			return ""
		}
		for i := uint64(0); i < n && g.err == nil; i++ {
			g.value(elem)
		}
		return ""
	default:
		if g.err == nil {
			g.err = errors.Errorf("unknown metadata type %d", t)
		}
		return ""
	}
}

func parseGGUF(br *bufio.Reader) (Header, error) {
	g := &ggufReader{r: br}
	h := Header{Format: FormatGGUF}
	h.Version = g.u32()
	g.version = h.Version
	if g.err == nil && (h.Version < 1 || h.Version > 3) {
		return Header{}, errors.Errorf("unsupported gguf version %d", h.Version)
	}
	h.TensorCount = g.count()
	h.KVCount = g.count()
	for i := uint64(0); i < h.KVCount && g.err == nil; i++ {
		key := g.str()
		v := g.value(g.u32())
		switch key {
		case keyArchitecture:
			h.Architecture = v
		case keyName:
			h.Name = v
		}
		if h.Architecture != "" && h.Name != "" {
			break
		}
	}
	if g.err != nil {
		return Header{}, errors.Wrap(g.err, "read gguf metadata")
	}
	return h, nil
}
