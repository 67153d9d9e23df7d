// Package pdf lays plain text out on A4 pages and produces a PDF using
// pdfcpu's JSON page description.
package pdf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrRenderFailed indicates the PDF could not be produced.
var ErrRenderFailed = errors.New("pdf render failed")

// ContentType is the MIME type of generated artifacts.
const ContentType = "application/pdf"

// A4 portrait in points with 0.75in margins.
const (
	pageWidth   = 595.0
	pageHeight  = 842.0
	margin      = 54.0
	bodySize    = 11
	titleSize   = 14
	lineHeight  = 14.0
	titleHeight = 22.0
	lineWidth   = 88
)

// Document is the text to lay out. Title is set in bold above the body.
type Document struct {
	Title string
	Body  string
}

// Result is a generated PDF.
type Result struct {
	Content   []byte
	PageCount int
}

type font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type textBox struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  font       `json:"font"`
}

type content struct {
	Text []textBox `json:"text"`
}

type page struct {
	Content content `json:"content"`
}

type layout struct {
	Paper  string          `json:"paper"`
	Origin string          `json:"origin"`
	Pages  map[string]page `json:"pages"`
}

// Render builds a PDF from doc.
func Render(doc Document) (*Result, error) {
	l := buildLayout(doc)

	desc, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("%w: encode layout: %v", ErrRenderFailed, err)
	}

	var out bytes.Buffer
	conf := model.NewDefaultConfiguration()
	if err := api.Create(nil, bytes.NewReader(desc), &out, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	count, err := api.PageCount(bytes.NewReader(out.Bytes()), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: read page count: %v", ErrRenderFailed, err)
	}

	return &Result{Content: out.Bytes(), PageCount: count}, nil
}

// buildLayout positions every line of doc and splits the result into pages.
func buildLayout(doc Document) layout {
	l := layout{Paper: "A4P", Origin: "LowerLeft", Pages: map[string]page{}}

	n := 1
	y := pageHeight - margin
	cur := page{}

	flush := func() {
		l.Pages[strconv.Itoa(n)] = cur
		n++
		cur = page{}
		y = pageHeight - margin
	}

	place := func(text string, f font, advance float64) {
		if y-advance < margin {
			flush()
		}
		y -= advance
		if text != "" {
			cur.Content.Text = append(cur.Content.Text, textBox{
				Value: text,
				Pos:   [2]float64{margin, y},
				Font:  f,
			})
		}
	}

	if title := strings.TrimSpace(sanitize(doc.Title)); title != "" {
		place(title, font{Name: "Helvetica-Bold", Size: titleSize}, titleHeight)
		place("", font{}, lineHeight)
	}

	for _, line := range Wrap(sanitize(doc.Body), lineWidth) {
		place(line, font{Name: "Helvetica", Size: bodySize}, lineHeight)
	}

	l.Pages[strconv.Itoa(n)] = cur
	return l
}

// Wrap breaks text into lines of at most width runes, preserving paragraph
// breaks. Words longer than width are split.
func Wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var b strings.Builder
		n := 0
		for _, w := range words {
			for r := []rune(w); len(r) > width; r = r[width:] {
				if n > 0 {
					lines = append(lines, b.String())
					b.Reset()
					n = 0
				}
				lines = append(lines, string(r[:width]))
				w = string(r[width:])
			}

			wl := len([]rune(w))
			if wl == 0 {
				continue
			}
			if n > 0 && n+1+wl > width {
				lines = append(lines, b.String())
				b.Reset()
				n = 0
			}
			if n > 0 {
				b.WriteByte(' ')
				n++
			}
			b.WriteString(w)
			n += wl
		}
		if n > 0 {
			lines = append(lines, b.String())
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// The standard fonts only cover Latin-1.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "₹", "Rs.")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20:
			return -1
		case r > 0xFF:
			return '?'
		}
		return r
	}, s)
}
