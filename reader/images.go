package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageImages returns one encoded raster per page, in page order, for up to
// maxImages pages.
//
// Scanned PDFs almost always store each page as a single full-page image
// XObject, so the largest embedded image of a page stands in for the page
// raster. Pages without any embedded image contribute nothing.
func (r *Reader) PageImages(ctx context.Context, maxImages int) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conf := pdfcpumodel.NewDefaultConfiguration()

	pdfCtx, err := api.ReadContext(bytes.NewReader(r.data), conf)
	if err != nil {
		return nil, fmt.Errorf("read PDF for image extraction: %w", err)
	}
	pageCount := pdfCtx.PageCount
	if pageCount > maxImages {
		pageCount = maxImages
	}

	selected := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		selected = append(selected, strconv.Itoa(i))
	}

	extracted, err := api.ExtractImagesRaw(bytes.NewReader(r.data), selected, conf)
	if err != nil {
		return nil, fmt.Errorf("extract page images: %w", err)
	}

	// One entry per page that has images; keep the largest image per page.
	type pageImage struct {
		page int
		data []byte
	}
	var pages []pageImage
	for _, byObj := range extracted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		best := pageImage{page: -1}
		for _, img := range byObj {
			data, err := io.ReadAll(img)
			if err != nil {
				continue
			}
			if len(data) > len(best.data) {
				best = pageImage{page: img.PageNr, data: data}
			}
		}
		if best.page > 0 {
			pages = append(pages, best)
		}
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].page < pages[j].page })

	out := make([][]byte, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.data)
	}
	return out, nil
}
