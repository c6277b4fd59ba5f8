// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine package. Errors returned by engines match
// exactly one of the first three with errors.Is.
var (
	// ErrLoadFailed means the document source is malformed or unreadable.
	ErrLoadFailed = errors.New("engine: load failed")

	// ErrInvalidPage means the page index is out of range.
	ErrInvalidPage = errors.New("engine: invalid page")

	// ErrRenderFailed means the engine could not rasterize a page at the
	// requested size, including when the target bitmap is too large.
	ErrRenderFailed = errors.New("engine: render failed")

	// ErrUnknownDocument is returned for handles that are not open.
	ErrUnknownDocument = errors.New("engine: unknown document")
)

// ErrorKind classifies a RenderError.
type ErrorKind int

const (
	KindLoadFailed ErrorKind = iota + 1
	KindInvalidPage
	KindRenderFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindLoadFailed:
		return "LoadFailed"
	case KindInvalidPage:
		return "InvalidPage"
	case KindRenderFailed:
		return "RenderFailed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindLoadFailed:
		return ErrLoadFailed
	case KindInvalidPage:
		return ErrInvalidPage
	case KindRenderFailed:
		return ErrRenderFailed
	}
	return nil
}

// RenderError is the typed error returned by engines.
type RenderError struct {
	Kind ErrorKind
	// Page is the zero-based page index, or -1 when not page specific.
	Page int
	// Err is the underlying cause, may be nil.
	Err error
}

func (e *RenderError) Error() string {
	msg := "engine: " + e.Kind.String()
	if e.Page >= 0 {
		msg += fmt.Sprintf(" (page %d)", e.Page)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the sentinel error of the error's kind.
func (e *RenderError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// LoadFailed returns a RenderError of kind KindLoadFailed.
func LoadFailed(err error) error {
	return &RenderError{Kind: KindLoadFailed, Page: -1, Err: err}
}

// InvalidPage returns a RenderError of kind KindInvalidPage.
func InvalidPage(index, count int) error {
	return &RenderError{
		Kind: KindInvalidPage,
		Page: index,
		Err:  fmt.Errorf("index %d out of range [0, %d)", index, count),
	}
}

// RenderFailed returns a RenderError of kind KindRenderFailed.
func RenderFailed(index int, err error) error {
	return &RenderError{Kind: KindRenderFailed, Page: index, Err: err}
}

// ConcurrentUseError is the panic value of an engine entered from a second
// goroutine while a call is in progress. It is a programming error in the
// caller and is never recovered by renderq.
type ConcurrentUseError struct {
	Engine string
}

func (e *ConcurrentUseError) Error() string {
	return e.Engine + " used concurrently from more than one goroutine"
}
