package minidb

const (
	PageSize = 4096 // 4 kilobytes
	MaxPages = 100  // hard ceiling on pages per table
)

type PageIndex uint32

// Page is a fixed size block of the database file. Node accessors read and
// write header fields and cells directly at their on-disk offsets, so the
// buffer is always ready to be flushed as is.
type Page struct {
	Index PageIndex
	buf   [PageSize]byte
}

func NewPage(idx PageIndex) *Page {
	return &Page{Index: idx}
}

// Bytes returns the raw page buffer. Writes to the returned slice modify the page.
func (p *Page) Bytes() []byte {
	return p.buf[:]
}

func (p *Page) LeafNode() LeafNode {
	return LeafNode{buf: p.buf[:]}
}

func (p *Page) InternalNode() InternalNode {
	return InternalNode{buf: p.buf[:]}
}

// copyFrom overwrites the whole page content with content of another page,
// page index is left untouched.
func (p *Page) copyFrom(src *Page) {
	p.buf = src.buf
}
