// Package pdfslip renders a fixed-layout, single-page PDF summary of
// an order and writes it to the public document directory.
package pdfslip

import (
	"fmt"
	"strings"
)

// builder accumulates PDF objects and serializes them once. The xref
// byte offsets are taken from the actual serialized output, never
// computed separately from emission.
type builder struct {
	objects []string
}

// add appends a body-less object and returns its 1-based object number.
func (b *builder) add(obj string) int {
	b.objects = append(b.objects, obj)
	return len(b.objects)
}

func (b *builder) render() []byte {
	var out strings.Builder
	out.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, len(b.objects))
	for i, obj := range b.objects {
		offsets = append(offsets, out.Len())
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(b.objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(b.objects)+1, xrefStart)

	return []byte(out.String())
}

// escape neutralizes the characters that are syntactically special in
// PDF string literals so customer-supplied text cannot break the
// document structure.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}

const (
	textX      = 42
	textStartY = 800
	lineHeight = 14
)

// renderPage lays the lines out top to bottom in 11pt Helvetica. When
// liveLocationURL is non-empty, the line carrying it gets a link
// annotation at that line's vertical offset; without a URL no
// annotation object is emitted at all.
func renderPage(lines []string, liveLocationURL string) []byte {
	var stream strings.Builder
	stream.WriteString("BT\n")
	stream.WriteString("/F1 11 Tf\n")
	fmt.Fprintf(&stream, "%d %d Td\n", textX, textStartY)

	linkLine := -1
	for i, line := range lines {
		if i > 0 {
			fmt.Fprintf(&stream, "0 -%d Td\n", lineHeight)
		}
		fmt.Fprintf(&stream, "(%s) Tj\n", escape(line))
		if liveLocationURL != "" && strings.HasPrefix(line, "Live Location: ") {
			linkLine = i
		}
	}
	stream.WriteString("ET\n")
	content := stream.String()

	pageAnnots := ""
	if linkLine >= 0 {
		pageAnnots = "/Annots [6 0 R] "
	}

	var b builder
	b.add("<< /Type /Catalog /Pages 2 0 R >>")
	b.add("<< /Type /Pages /Count 1 /Kids [3 0 R] >>")
	b.add(fmt.Sprintf(
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R %s>>",
		pageAnnots))
	b.add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	b.add(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content))

	if linkLine >= 0 {
		y := textStartY - linkLine*lineHeight
		b.add(fmt.Sprintf(
			"<< /Type /Annot /Subtype /Link /Rect [%d %d 560 %d] /Border [0 0 0] /A << /S /URI /URI (%s) >> >>",
			textX, y-2, y+10, escape(liveLocationURL)))
	}

	return b.render()
}
