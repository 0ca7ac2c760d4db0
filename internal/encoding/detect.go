// Package encoding normalizes uploaded text files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a file was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_9   Charset = "ISO-8859-9"
)

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// legacy maps chardet results to single-byte decoders. ISO-8859-1 is read
// as Windows-1252, its superset, since spreadsheet exports use the latter.
var legacy = map[string]Charset{
	"ISO-8859-1":   Windows1252,
	"windows-1252": Windows1252,
	"ISO-8859-9":   ISO8859_9,
}

var decoders = map[Charset]xenc.Encoding{
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1252: charmap.Windows1252,
	ISO8859_9:   charmap.ISO8859_9,
}

// NewUTF8Reader sniffs the start of r and returns a reader yielding UTF-8
// together with the charset it decoded from. A UTF-8 BOM is stripped.
// Unrecognized non-UTF-8 input is decoded as Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	charset := Detect(buf)

	if charset == UTF8 {
		if bytes.HasPrefix(buf, boms[0].prefix) {
			_, _ = br.Discard(len(boms[0].prefix))
		}

		return br, UTF8, nil
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), charset, nil
}

// Detect guesses the charset of a file from its first bytes.
func Detect(buf []byte) Charset {
	for _, b := range boms {
		if bytes.HasPrefix(buf, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(trimPartialRune(buf)) {
		return UTF8
	}

	if res, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if res.Charset == "UTF-8" {
			return UTF8
		}

		if cs, ok := legacy[res.Charset]; ok {
			return cs
		}
	}

	return Windows1252
}

// trimPartialRune drops a multi-byte sequence cut off at the end of a sniffed prefix.
func trimPartialRune(buf []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if utf8.RuneStart(buf[len(buf)-i]) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}

			break
		}
	}

	return buf
}
