package backend

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/succinctbench/sbench/errors"
)

// Serialized index layout. All integers are big-endian so an index file reads
// the same on every host:
//
//	magic   [4]byte  "SBIX"
//	version uint32
//	n       uint64   length of the original input
//	text    [n]byte
//	sa      [n]uint64
//	isa     [n]uint64
const (
	indexMagic      = "SBIX"
	indexVersion    = 1
	indexHeaderSize = 16
	entrySize       = 8
)

// Index answers queries over a serialized suffix-array index. The backing
// buffer is never written after NewIndex returns.
type Index struct {
	buf    []byte
	n      int64
	text   []byte
	saOff  int64
	isaOff int64

	variant string
	closeFn func() error
}

// NewIndex decodes an index from buf without copying it.
func NewIndex(buf []byte) (*Index, error) {
	return newIndex(buf, "memory", nil)
}

func newIndex(buf []byte, variant string, closeFn func() error) (*Index, error) {
	if len(buf) < indexHeaderSize {
		return nil, errors.Newf(errors.BackendError, "index too short: %d bytes", len(buf))
	}
	if string(buf[:4]) != indexMagic {
		return nil, errors.Newf(errors.BackendError, "bad index magic %q", buf[:4])
	}
	if v := binary.BigEndian.Uint32(buf[4:8]); v != indexVersion {
		return nil, errors.Newf(errors.BackendError, "unsupported index version %d", v)
	}
	n := binary.BigEndian.Uint64(buf[8:16])
	if n == 0 {
		return nil, errors.New(errors.BackendError, "index holds no data")
	}
	want := uint64(indexHeaderSize) + n*(1+2*entrySize)
	if n > uint64(len(buf)) || uint64(len(buf)) != want {
		return nil, errors.Newf(errors.BackendError, "index size mismatch: have %d bytes, header implies %d", len(buf), want)
	}
	idx := &Index{
		buf:     buf,
		n:       int64(n),
		text:    buf[indexHeaderSize : indexHeaderSize+int64(n)],
		saOff:   indexHeaderSize + int64(n),
		isaOff:  indexHeaderSize + int64(n)*(1+entrySize),
		variant: variant,
		closeFn: closeFn,
	}
	return idx, nil
}

// Build constructs the serialized index of text.
func Build(text []byte) ([]byte, error) {
	n := len(text)
	if n == 0 {
		return nil, errors.New(errors.InvalidArgument, "cannot index empty input")
	}
	sa := make([]int64, n)
	for i := range sa {
		sa[i] = int64(i)
	}
	sort.Slice(sa, func(a, b int) bool {
		return bytes.Compare(text[sa[a]:], text[sa[b]:]) < 0
	})
	isa := make([]int64, n)
	for i, s := range sa {
		isa[s] = int64(i)
	}

	out := make([]byte, indexHeaderSize+n*(1+2*entrySize))
	copy(out, indexMagic)
	binary.BigEndian.PutUint32(out[4:8], indexVersion)
	binary.BigEndian.PutUint64(out[8:16], uint64(n))
	copy(out[indexHeaderSize:], text)
	pos := indexHeaderSize + n
	for _, v := range sa {
		binary.BigEndian.PutUint64(out[pos:], uint64(v))
		pos += entrySize
	}
	for _, v := range isa {
		binary.BigEndian.PutUint64(out[pos:], uint64(v))
		pos += entrySize
	}
	return out, nil
}

func (x *Index) Size() int64 {
	return x.n
}

// Text returns the indexed input. The slice aliases the index buffer and must
// not be modified.
func (x *Index) Text() []byte {
	return x.text
}

func (x *Index) sa(i int64) int64 {
	return int64(binary.BigEndian.Uint64(x.buf[x.saOff+i*entrySize:]))
}

func (x *Index) isa(i int64) int64 {
	return int64(binary.BigEndian.Uint64(x.buf[x.isaOff+i*entrySize:]))
}

func (x *Index) LookupPrimitive(kind Primitive, i int64) (int64, error) {
	if i < 0 || i >= x.n {
		return 0, errors.Newf(errors.BackendError, "%s lookup index %d out of range [0, %d)", kind, i, x.n)
	}
	switch kind {
	case SA:
		return x.sa(i), nil
	case ISA:
		return x.isa(i), nil
	case NPA:
		return x.isa((x.sa(i) + 1) % x.n), nil
	default:
		return 0, errors.Newf(errors.BackendError, "unknown primitive %d", kind)
	}
}

// bounds returns the half-open range of suffix array positions whose suffixes
// start with pattern.
func (x *Index) bounds(pattern []byte) (int64, int64) {
	m := len(pattern)
	prefix := func(i int) []byte {
		s := x.sa(int64(i))
		end := s + int64(m)
		if end > x.n {
			end = x.n
		}
		return x.text[s:end]
	}
	lo := sort.Search(int(x.n), func(i int) bool {
		return bytes.Compare(prefix(i), pattern) >= 0
	})
	hi := lo + sort.Search(int(x.n)-lo, func(i int) bool {
		return bytes.Compare(prefix(lo+i), pattern) > 0
	})
	return int64(lo), int64(hi)
}

func (x *Index) Count(pattern []byte) (int64, error) {
	lo, hi := x.bounds(pattern)
	return hi - lo, nil
}

// Search returns the occurrences of pattern in suffix array order.
func (x *Index) Search(pattern []byte) ([]int64, error) {
	lo, hi := x.bounds(pattern)
	res := make([]int64, 0, hi-lo)
	for i := lo; i < hi; i++ {
		res = append(res, x.sa(i))
	}
	return res, nil
}

func (x *Index) Extract(offset int64, length int32) ([]byte, error) {
	return extract(x.text, offset, length)
}

// Close releases the mapping behind a memory-mapped index. It is a no-op for
// the other variants.
func (x *Index) Close() error {
	if x.closeFn == nil {
		return nil
	}
	fn := x.closeFn
	x.closeFn = nil
	return fn()
}

func (x *Index) String() string {
	return x.variant + " index"
}

func extract(data []byte, offset int64, length int32) ([]byte, error) {
	size := int64(len(data))
	if offset < 0 || offset >= size {
		return nil, errors.Newf(errors.BackendError, "extract offset %d out of range [0, %d)", offset, size)
	}
	if length < 0 {
		return nil, errors.Newf(errors.BackendError, "negative extract length %d", length)
	}
	end := offset + int64(length)
	if end > size {
		end = size
	}
	out := make([]byte, end-offset)
	copy(out, data[offset:end])
	return out, nil
}
