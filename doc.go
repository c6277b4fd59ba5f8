// Package pdfview renders document pages into displayable bitmaps through a
// bounded, per-document page cache and a single-owner render engine.
//
// # Overview
//
// A page rasterization engine that cannot be shared between goroutines is
// owned by exactly one goroutine, the owner, started by [renderq.Start].
// Everything else talks to it through the owner's request queue. Requests
// are served strictly in arrival order.
//
//	owner, err := renderq.Start(func() (engine.Engine, error) {
//	    return engine.NewRaster(), nil
//	})
//	if err != nil {
//	    return err
//	}
//	defer owner.Close()
//
//	s, err := session.Open(ctx, owner, engine.FromPath("paper.pdf"),
//	    session.WithNotify(func(r session.Resolution) {
//	        // r.Bitmap or r.Err for r.Key
//	    }))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	vp := s.NewViewport()
//	vp.ZoomIn()
//	res, err := s.RequestPage(vp)
//	if res.Hit() {
//	    show(res.Bitmap)
//	}
//
// # Packages
//
//   - [viewport]: page, zoom and pan state with snapped zoom steps
//   - [pagecache]: LRU page cache with request coalescing
//   - [renderq]: the owner goroutine and its FIFO request queue
//   - [session]: one open document, bridging viewports to the cache
//   - [engine]: the engine contract and the rsc.io/pdf + gg raster engine
//
// # Logging
//
// pdfview is silent by default. Call [SetLogger] to enable structured
// logging through log/slog.
//
// [renderq.Start]: https://pkg.go.dev/github.com/gogpu/pdfview/renderq#Start
// [viewport]: https://pkg.go.dev/github.com/gogpu/pdfview/viewport
// [pagecache]: https://pkg.go.dev/github.com/gogpu/pdfview/pagecache
// [renderq]: https://pkg.go.dev/github.com/gogpu/pdfview/renderq
// [session]: https://pkg.go.dev/github.com/gogpu/pdfview/session
// [engine]: https://pkg.go.dev/github.com/gogpu/pdfview/engine
package pdfview

// Version is the current version of the module.
const Version = "0.3.0"
