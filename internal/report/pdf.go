package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	pdfFont      = "Arial"
	pdfFontSize  = 9.0
	pdfPageWidth = 190.0
)

// PDF renders markdown into an A4 document. Headings, paragraphs,
// emphasis, lists, tables and rules are supported; anything else is
// written as plain text.
func PDF(md, title string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	pdf.SetFont(pdfFont, "", pdfFontSize)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	source := []byte(md)
	doc := markdown.Parser().Parse(text.NewReader(source))

	r := &pdfRenderer{pdf: pdf, source: source, tr: tr}
	if err := ast.Walk(doc, r.walk); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfRenderer struct {
	pdf       *fpdf.Fpdf
	source    []byte
	tr        func(string) string
	bold      bool
	italic    bool
	size      float64
	listLevel int
}

func (r *pdfRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	size := r.size
	if size == 0 {
		size = pdfFontSize
	}
	r.pdf.SetFont(pdfFont, style, size)
}

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(4)
			r.bold = true
			r.size = map[int]float64{1: 14, 2: 12, 3: 11}[node.Level]
		} else {
			r.pdf.Ln(6)
			r.bold = false
			r.size = 0
		}
		r.updateFont()
	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(5)
		}
	case *ast.Text:
		if entering {
			r.pdf.Write(5, r.tr(string(node.Segment.Value(r.source))))
			if node.SoftLineBreak() || node.HardLineBreak() {
				r.pdf.Ln(5)
			}
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case *ast.CodeSpan:
		if entering {
			r.pdf.SetFont("Courier", "", pdfFontSize)
			r.pdf.Write(5, r.tr(string(node.Text(r.source))))
			r.updateFont()
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		if entering {
			r.listLevel++
		} else {
			r.listLevel--
			if r.listLevel == 0 {
				r.pdf.Ln(2)
			}
		}
	case *ast.ListItem:
		if entering {
			r.pdf.Ln(5)
			r.pdf.SetX(12 + float64(r.listLevel)*4)
			r.pdf.Write(5, "- ")
		}
	case *ast.ThematicBreak:
		if entering {
			r.pdf.Ln(2)
			r.pdf.Line(10, r.pdf.GetY(), 200, r.pdf.GetY())
			r.pdf.Ln(2)
		}
	case *extast.Table:
		if entering {
			r.table(node)
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) table(n *extast.Table) {
	var rows [][]string
	var collect func(node ast.Node)
	collect = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch child.(type) {
			case *extast.TableHeader, *extast.TableRow:
				var row []string
				for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
					row = append(row, r.tr(strings.TrimSpace(string(cell.Text(r.source)))))
				}
				rows = append(rows, row)
			}
		}
	}
	collect(n)
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	widths := r.columnWidths(rows)
	const lineHeight = 5.0

	r.pdf.Ln(2)
	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont(pdfFont, "B", 8)
			r.pdf.SetFillColor(230, 230, 230)
		} else {
			r.pdf.SetFont(pdfFont, "", 8)
			r.pdf.SetFillColor(255, 255, 255)
		}
		for j := range widths {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			for len(cell) > 3 && r.pdf.GetStringWidth(cell) > widths[j]-2 {
				cell = cell[:len(cell)-4] + "..."
			}
			r.pdf.CellFormat(widths[j], lineHeight, cell, "1", 0, "L", true, 0, "")
		}
		r.pdf.Ln(lineHeight)
	}
	r.pdf.Ln(3)
	r.updateFont()
}

// columnWidths sizes columns to their widest cell, scaled to fit the page.
func (r *pdfRenderer) columnWidths(rows [][]string) []float64 {
	cols := len(rows[0])
	widths := make([]float64, cols)

	r.pdf.SetFont(pdfFont, "B", 8)
	for _, row := range rows {
		for i, cell := range row {
			if i >= cols {
				break
			}
			if w := r.pdf.GetStringWidth(cell) + 4; w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 0.0
	for i := range widths {
		if widths[i] < 10 {
			widths[i] = 10
		}
		total += widths[i]
	}
	if total > pdfPageWidth {
		scale := pdfPageWidth / total
		for i := range widths {
			widths[i] *= scale
		}
	}
	return widths
}
