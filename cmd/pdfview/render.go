package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/pdfview"
	"github.com/gogpu/pdfview/engine"
	"github.com/gogpu/pdfview/internal/config"
	"github.com/gogpu/pdfview/pagecache"
	"github.com/gogpu/pdfview/renderq"
	"github.com/gogpu/pdfview/session"
)

// renderer writes the selected pages of documents to PNG files.
type renderer struct {
	owner *renderq.Owner
	cfg   config.Config
	pages pageSet
}

// renderAll renders every file concurrently through the shared owner.
func (r *renderer) renderAll(ctx context.Context, files []string) error {
	var g errgroup.Group
	for _, f := range files {
		g.Go(func() error {
			if err := r.renderFile(ctx, f); err != nil {
				pdfview.Logger().Error("pdfview: render failed", "file", f, "err", err)
				return fmt.Errorf("%s: %w", f, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// renderFile opens path in a new session and writes its selected pages.
// Every page is requested before the first is awaited so the owner can
// work through them back to back.
func (r *renderer) renderFile(ctx context.Context, path string) error {
	start := time.Now()
	s, err := session.Open(ctx, r.owner, engine.FromPath(path),
		session.WithCacheCapacity(r.cfg.CacheCapacity))
	if err != nil {
		return err
	}
	defer s.Close()

	v := s.NewViewport()
	v.SetZoom(r.cfg.Zoom)

	indices := r.pages.resolve(s.PageCount())
	if len(indices) == 0 {
		return fmt.Errorf("no selected page in range 1-%d", s.PageCount())
	}

	type request struct {
		page int
		res  pagecache.Result
	}
	reqs := make([]request, 0, len(indices))
	for _, p := range indices {
		v.GoToPage(p)
		res, err := s.RequestPage(v)
		if err != nil {
			return err
		}
		reqs = append(reqs, request{page: p, res: res})
	}

	var errs []error
	for _, req := range reqs {
		bm := req.res.Bitmap
		if !req.res.Hit() {
			if bm, err = req.res.Pending.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				errs = append(errs, fmt.Errorf("page %d: %w", req.page+1, err))
				continue
			}
		}
		out := outputPath(r.cfg.OutputDir, path, req.page)
		if err := writePNG(out, bm); err != nil {
			errs = append(errs, err)
			continue
		}
		pdfview.Logger().Info("pdfview: page written", "file", out, "width", bm.Width, "height", bm.Height)
	}

	st := s.Stats()
	pdfview.Logger().Info("pdfview: document rendered", "document", s.Name(),
		"pages", len(reqs), "misses", st.Misses, "elapsed", time.Since(start))
	return errors.Join(errs...)
}

// outputPath names the PNG for page index of doc, e.g. out/report-003.png.
func outputPath(dir, doc string, index int) string {
	base := strings.TrimSuffix(filepath.Base(doc), filepath.Ext(doc))
	return filepath.Join(dir, fmt.Sprintf("%s-%03d.png", base, index+1))
}

func writePNG(path string, bm *engine.Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, bm.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
