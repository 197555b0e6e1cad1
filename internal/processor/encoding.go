package processor

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported by DetectEncoding
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
)

var (
	// ErrInvalidUTF8 indicates content that is not valid UTF-8 text
	ErrInvalidUTF8 = errors.New("invalid UTF-8")

	// ErrIllegalChar indicates a character XML 1.0 cannot carry
	ErrIllegalChar = errors.New("character not allowed in XML")
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding detects the encoding of content from its byte order mark.
// Content without a UTF-16 BOM is treated as UTF-8.
func DetectEncoding(content []byte) string {
	switch {
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE
	default:
		return EncodingUTF8
	}
}

// DecodeText converts file content to a UTF-8 string that can be embedded
// in the document. UTF-16 content is transcoded and loses its BOM; UTF-8
// content is returned unchanged, including a leading BOM.
func DecodeText(content []byte) (string, error) {
	var endian unicode.Endianness
	switch DetectEncoding(content) {
	case EncodingUTF16LE:
		endian = unicode.LittleEndian
	case EncodingUTF16BE:
		endian = unicode.BigEndian
	default:
		if !utf8.Valid(content) {
			return "", ErrInvalidUTF8
		}
		text := string(content)
		return text, validateXMLChars(text)
	}

	decoded, _, err := transform.Bytes(unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder(), content)
	if err != nil {
		return "", fmt.Errorf("failed to decode UTF-16: %w", err)
	}
	text := string(decoded)
	return text, validateXMLChars(text)
}

// validateXMLChars rejects runes outside the XML 1.0 Char production
func validateXMLChars(text string) error {
	for i, r := range text {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %U at offset %d", ErrIllegalChar, r, i)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
