package minidb

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

type DBFile interface {
	io.ReadSeeker
	io.ReaderAt
	io.WriterAt
	io.Closer
}

type pagerImpl struct {
	totalPages uint32 // total number of pages

	// pages is indexed by page index, nil entries are pages not loaded yet
	pages [MaxPages]*Page

	file     DBFile
	fileSize int64
	closed   bool
}

// NewPager checks the database file and computes number of pages in it,
// pages themselves are loaded lazily.
func NewPager(file DBFile) (*pagerImpl, error) {
	aPager := &pagerImpl{
		file: file,
	}

	fileSize, err := aPager.file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fatal("open pager", err)
	}
	aPager.fileSize = fileSize

	// Basic check to verify file size is a multiple of page size (4096B)
	if fileSize%PageSize != 0 {
		return nil, fatal("open pager", fmt.Errorf("%w: %d", ErrCorruptFile, fileSize))
	}

	totalPages := fileSize / PageSize
	if totalPages > MaxPages {
		return nil, fatal("open pager", fmt.Errorf("%w: file has %d pages, maximum is %d", ErrPageOutOfBounds, totalPages, MaxPages))
	}
	aPager.totalPages = uint32(totalPages)

	return aPager, nil
}

func (p *pagerImpl) TotalPages() uint32 {
	return p.totalPages
}

// UnusedPageIdx returns index of the next page to allocate. Until pages
// can be recycled, new pages always go to the end of the database file.
func (p *pagerImpl) UnusedPageIdx() PageIndex {
	return PageIndex(p.totalPages)
}

func (p *pagerImpl) GetPage(ctx context.Context, pageIdx PageIndex) (*Page, error) {
	if p.closed {
		return nil, fatal("get page", ErrPagerClosed)
	}
	if pageIdx >= MaxPages {
		return nil, fatal("get page", fmt.Errorf("%w: page index %d reached limit of max pages %d", ErrPageOutOfBounds, pageIdx, MaxPages))
	}

	if aPage := p.pages[pageIdx]; aPage != nil {
		return aPage, nil
	}

	// Cache miss, pages persisted in the file are read from it,
	// any other page is new and stays zero filled.
	aPage := NewPage(pageIdx)
	if uint32(pageIdx) < p.totalPages {
		offset := int64(pageIdx) * PageSize
		if _, err := p.file.ReadAt(aPage.Bytes(), offset); err != nil {
			return nil, fatal("get page", fmt.Errorf("read page %d: %w", pageIdx, err))
		}
	} else {
		p.totalPages = uint32(pageIdx) + 1
	}
	p.pages[pageIdx] = aPage

	return aPage, nil
}

func (p *pagerImpl) Flush(ctx context.Context, pageIdx PageIndex) error {
	if pageIdx >= MaxPages || p.pages[pageIdx] == nil {
		return fatal("flush", fmt.Errorf("%w: page %d", ErrFlushUncachedPage, pageIdx))
	}

	offset := int64(pageIdx) * PageSize
	if _, err := p.file.WriteAt(p.pages[pageIdx].Bytes(), offset); err != nil {
		return fatal("flush", fmt.Errorf("write page %d: %w", pageIdx, err))
	}
	if end := offset + PageSize; end > p.fileSize {
		p.fileSize = end
	}

	return nil
}

// Close flushes every cached page, releases the cache and closes the file.
func (p *pagerImpl) Close(ctx context.Context) error {
	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	for pageIdx, aPage := range p.pages {
		if aPage == nil {
			continue
		}
		err = multierr.Append(err, p.Flush(ctx, PageIndex(pageIdx)))
		p.pages[pageIdx] = nil
	}
	if closeErr := p.file.Close(); closeErr != nil {
		err = multierr.Append(err, fatal("close", closeErr))
	}

	return err
}
