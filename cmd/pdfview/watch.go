package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/pdfview"
)

// settleDelay coalesces the bursts of events editors produce while saving.
const settleDelay = 200 * time.Millisecond

// watch renders a file again each time it changes, until ctx ends. The
// parent directories are watched rather than the files so that editors
// replacing a file by rename are noticed.
func (r *renderer) watch(ctx context.Context, files []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]string) // cleaned absolute path -> argument
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = f
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
	}
	pdfview.Logger().Info("pdfview: watching", "files", len(watched), "dirs", len(dirs))

	changed := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			arg, ok := watched[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			if t, ok := timers[arg]; ok {
				t.Reset(settleDelay)
				continue
			}
			timers[arg] = time.AfterFunc(settleDelay, func() {
				select {
				case changed <- arg:
				case <-ctx.Done():
				}
			})

		case arg := <-changed:
			delete(timers, arg)
			pdfview.Logger().Info("pdfview: file changed", "file", arg)
			if err := r.renderFile(ctx, arg); err != nil {
				pdfview.Logger().Error("pdfview: render failed", "file", arg, "err", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			pdfview.Logger().Warn("pdfview: watch error", "err", err)
		}
	}
}
