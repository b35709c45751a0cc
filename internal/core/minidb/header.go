package minidb

const (
	nodeKindOffset   = 0
	nodeIsRootOffset = 1
	nodeParentOffset = 2
	CommonHeaderSize = 6

	nodeKindLeaf     = byte(0)
	nodeKindInternal = byte(1)
	nodeFlagSet      = byte(1)
	nodeFlagNotSet   = byte(0)
)

// Header is the part of the page shared by both leaf and internal nodes:
// 1 byte kind tag, 1 byte root flag and 4 byte parent page index.
type Header struct {
	IsInternal bool
	IsRoot     bool
	Parent     PageIndex
}

func (h *Header) Size() uint64 {
	return CommonHeaderSize
}

func (h *Header) Marshal(buf []byte) ([]byte, error) {
	size := h.Size()
	if uint64(cap(buf)) >= size {
		buf = buf[:size]
	} else {
		buf = make([]byte, size)
	}

	buf[nodeKindOffset] = nodeKindLeaf
	if h.IsInternal {
		buf[nodeKindOffset] = nodeKindInternal
	}

	buf[nodeIsRootOffset] = nodeFlagNotSet
	if h.IsRoot {
		buf[nodeIsRootOffset] = nodeFlagSet
	}

	marshalUint32(buf, uint32(h.Parent), nodeParentOffset)

	return buf, nil
}

func (h *Header) Unmarshal(buf []byte) (uint64, error) {
	h.IsInternal = buf[nodeKindOffset] == nodeKindInternal
	h.IsRoot = buf[nodeIsRootOffset] == nodeFlagSet
	h.Parent = PageIndex(unmarshalUint32(buf, nodeParentOffset))

	return h.Size(), nil
}

// Header decodes the common node header of the page.
func (p *Page) Header() Header {
	var h Header
	h.Unmarshal(p.buf[:])
	return h
}

func (p *Page) setHeader(h Header) {
	h.Marshal(p.buf[:CommonHeaderSize])
}

func (p *Page) IsInternal() bool {
	return p.buf[nodeKindOffset] == nodeKindInternal
}

func (p *Page) IsLeaf() bool {
	return !p.IsInternal()
}

func (p *Page) IsRoot() bool {
	return p.buf[nodeIsRootOffset] == nodeFlagSet
}

func (p *Page) SetRoot(isRoot bool) {
	h := p.Header()
	h.IsRoot = isRoot
	p.setHeader(h)
}

func (p *Page) Parent() PageIndex {
	return PageIndex(unmarshalUint32(p.buf[:], nodeParentOffset))
}

func (p *Page) SetParent(parentIdx PageIndex) {
	marshalUint32(p.buf[:], uint32(parentIdx), nodeParentOffset)
}

func marshalUint32(buf []byte, n uint32, i uint64) []byte {
	buf[i+0] = byte(n >> 0)
	buf[i+1] = byte(n >> 8)
	buf[i+2] = byte(n >> 16)
	buf[i+3] = byte(n >> 24)
	return buf
}

func unmarshalUint32(buf []byte, i uint64) uint32 {
	return 0 |
		(uint32(buf[i+0]) << 0) |
		(uint32(buf[i+1]) << 8) |
		(uint32(buf[i+2]) << 16) |
		(uint32(buf[i+3]) << 24)
}
