// Package pdftest builds small, valid PDF files for tests.
//
// Lines of a page are drawn in one text object, separated by T*, with Helvetica at 12pt
// and explicit glyph widths, so both plain-text and positioned extraction see the same
// characters and line breaks.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

const (
	// FontSize is the size every line is drawn at.
	FontSize = 12.0
	// GlyphWidth is the advance of every character, in text space units (1/1000 em).
	GlyphWidth = 500
	// Left is the x coordinate every line starts at.
	Left = 72.0
	// Top is the baseline of the first line on a page.
	Top = 720.0
	// Leading is the distance between consecutive baselines.
	Leading = 14.0
)

// Doc describes a PDF to build. Each page is a list of lines.
type Doc struct {
	Pages  [][]string
	Title  string
	Author string
}

// Baseline returns the y coordinate of the given 0-based line.
func Baseline(line int) float64 {
	return Top - float64(line)*Leading
}

// Bytes renders the document.
func (d Doc) Bytes() []byte {
	var buf bytes.Buffer
	var offsets []int
	begin := func() int {
		offsets = append(offsets, buf.Len())
		n := len(offsets)
		fmt.Fprintf(&buf, "%d 0 obj\n", n)
		return n
	}
	end := func() { buf.WriteString("\nendobj\n") }

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	pages := d.Pages
	if len(pages) == 0 {
		pages = [][]string{{}}
	}
	const fontObj = 3
	firstPageObj := fontObj + 1
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPageObj+2*i)
	}

	begin()
	buf.WriteString("<< /Type /Catalog /Pages 2 0 R >>")
	end()

	begin()
	fmt.Fprintf(&buf, "<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", strings.Join(kids, " "), len(pages))
	end()

	begin()
	widths := make([]string, 95)
	for i := range widths {
		widths[i] = fmt.Sprint(GlyphWidth)
	}
	fmt.Fprintf(&buf, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>", strings.Join(widths, " "))
	end()

	for _, lines := range pages {
		pageObj := begin()
		fmt.Fprintf(&buf, "<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontObj, pageObj+1)
		end()

		var content strings.Builder
		fmt.Fprintf(&content, "BT /F1 %g Tf %g TL %g %g Td\n", FontSize, Leading, Left, Top)
		for i, line := range lines {
			if i > 0 {
				content.WriteString("T* ")
			}
			fmt.Fprintf(&content, "(%s) Tj\n", escape(line+" "))
		}
		content.WriteString("ET\n")
		begin()
		fmt.Fprintf(&buf, "<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String())
		end()
	}

	infoObj := 0
	if d.Title != "" || d.Author != "" {
		infoObj = begin()
		buf.WriteString("<<")
		if d.Title != "" {
			fmt.Fprintf(&buf, " /Title (%s)", escape(d.Title))
		}
		if d.Author != "" {
			fmt.Fprintf(&buf, " /Author (%s)", escape(d.Author))
		}
		buf.WriteString(" >>")
		end()
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R", len(offsets)+1)
	if infoObj > 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", infoObj)
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

// WriteFile renders the document to path.
func (d Doc) WriteFile(path string) error {
	return os.WriteFile(path, d.Bytes(), 0o644)
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
