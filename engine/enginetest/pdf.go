// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package enginetest

import (
	"bytes"
	"fmt"
	"strings"
)

// Page describes one page of a generated PDF. A zero MediaBox makes the
// page inherit the page tree's default box (US Letter).
type Page struct {
	MediaBox [4]float64
	Content  string
}

// PDF builds a minimal, valid PDF with a classic cross-reference table.
// Pages may use the font resource /F1 (Helvetica).
func PDF(pages ...Page) []byte {
	var objs []string

	// 1: catalog, 2: page tree, 3: font, then a page + content pair per page.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
			strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, p := range pages {
		page := fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R", 5+2*i)
		if p.MediaBox != [4]float64{} {
			b := p.MediaBox
			page += fmt.Sprintf(" /MediaBox [%g %g %g %g]", b[0], b[1], b[2], b[3])
		}
		page += " >>"
		stream := fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(p.Content), p.Content)
		objs = append(objs, page, stream)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}
