package output

import (
	"encoding/xml"
	"strings"

	"github.com/quantmind-br/smashy/internal/domain"
)

const (
	rootOpen   = "<codebase>\n"
	rootClose  = "</codebase>\n"
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

// cdataSplit replaces a literal "]]>" inside content: the open section is
// closed after "]]", the ">" is emitted as a reference, and a new section
// is opened.
const cdataSplit = "]]" + cdataClose + "&gt;" + cdataOpen

// Serialize renders files as one <codebase> document. The result is
// always well-formed, and empty input still yields the root element.
func Serialize(files []domain.ProcessedFile) string {
	size := len(rootOpen) + len(rootClose)
	for _, f := range files {
		size += len(f.RelPath) + len(f.Content) + 48
	}

	var b strings.Builder
	b.Grow(size)

	b.WriteString(rootOpen)
	for _, f := range files {
		b.WriteString(`  <file path="`)
		writeAttr(&b, f.RelPath)
		b.WriteString(`">`)
		writeCDATA(&b, f.Content)
		b.WriteString("</file>\n")
	}
	b.WriteString(rootClose)

	return b.String()
}

// SerializeDocument renders a document
func SerializeDocument(doc *domain.Document) string {
	if doc == nil {
		return Serialize(nil)
	}
	return Serialize(doc.Files)
}

func writeAttr(b *strings.Builder, value string) {
	// strings.Builder writes never fail
	_ = xml.EscapeText(b, []byte(value))
}

func writeCDATA(b *strings.Builder, content string) {
	b.WriteString(cdataOpen)
	b.WriteString(strings.ReplaceAll(content, cdataClose, cdataSplit))
	b.WriteString(cdataClose)
}
