package f29

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	// maxInflatedStream caps the output of a single content stream
	maxInflatedStream = 8 << 20
	// maxStreams bounds the work done on pathological files
	maxStreams = 4096
	// maxObjectSpan bounds the search for the end of an array or dictionary
	maxObjectSpan = 64 << 10
)

var (
	streamKeyword    = []byte("stream")
	endstreamKeyword = []byte("endstream")
)

// decodeLatin1 maps every byte to a rune. ISO-8859-1 is total, so this never fails.
func decodeLatin1(raw []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// blankObjectSyntax blanks the numbers and names inside "[...]" arrays and
// "<<...>>" dictionaries of a PDF byte image, where font widths, boxes and
// object references live. Literal strings and line breaks survive, so text
// shown through TJ arrays still reaches the scanner. Unterminated regions are
// left untouched.
func blankObjectSyntax(raw []byte) []byte {
	out := bytes.Clone(raw)
	for i := 0; i < len(out); i++ {
		switch {
		case out[i] == '(':
			_, next := readLiteral(out, i)
			i = next - 1
		case out[i] == '[':
			if end, ok := closingBracket(out, i); ok {
				blankOutside(out, i, end)
				i = end
			}
		case out[i] == '<' && i+1 < len(out) && out[i+1] == '<':
			if end, ok := closingBracket(out, i); ok {
				blankOutside(out, i, end)
				i = end
			}
		}
	}
	return out
}

// closingBracket returns the index of the byte that closes the array or
// dictionary opening at start, skipping nested containers and literal strings
func closingBracket(b []byte, start int) (int, bool) {
	depth := 0
	for i := start; i < len(b) && i-start < maxObjectSpan; i++ {
		switch {
		case b[i] == '(':
			_, next := readLiteral(b, i)
			i = next - 1
		case b[i] == '[':
			depth++
		case b[i] == ']':
			depth--
		case b[i] == '<' && i+1 < len(b) && b[i+1] == '<':
			depth++
			i++
		case b[i] == '>' && i+1 < len(b) && b[i+1] == '>':
			depth--
			i++
		}
		if depth == 0 {
			return i, true
		}
		if depth < 0 {
			return 0, false
		}
	}
	return 0, false
}

// blankOutside replaces b[start:end+1] with spaces except for literal strings and line breaks
func blankOutside(b []byte, start, end int) {
	for i := start; i <= end; i++ {
		switch b[i] {
		case '(':
			_, next := readLiteral(b, i)
			i = next - 1
		case '\n', '\r':
		default:
			b[i] = ' '
		}
	}
}

// contentStreamText inflates the compressed streams of a PDF byte image and
// returns the literal strings shown by their text operators, one text object per line.
// Uncompressed streams are read as they are when they hold a text object;
// anything else that does not inflate is skipped.
func contentStreamText(raw []byte) string {
	var b strings.Builder
	for _, data := range rawStreams(raw) {
		decoded := data
		if !isPlainContent(data) {
			var ok bool
			if decoded, ok = inflate(data); !ok {
				continue
			}
		}
		if text := literalText(decoded); text != "" {
			b.WriteString(text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// isPlainContent reports whether a stream is an uncompressed content stream:
// its head has no control bytes besides whitespace and it holds a text object
func isPlainContent(data []byte) bool {
	for _, c := range data[:min(len(data), 256)] {
		if c < 0x20 && c != '\n' && c != '\r' && c != '\t' && c != '\f' {
			return false
		}
	}
	return bytes.Contains(data, []byte("BT"))
}

// rawStreams returns the bytes between each "stream" and "endstream" keyword pair
func rawStreams(raw []byte) [][]byte {
	var out [][]byte
	pos := 0
	for len(out) < maxStreams {
		i := bytes.Index(raw[pos:], streamKeyword)
		if i < 0 {
			break
		}
		i += pos
		// "endstream" also contains the keyword
		if i >= 3 && string(raw[i-3:i]) == "end" {
			pos = i + len(streamKeyword)
			continue
		}

		start := i + len(streamKeyword)
		if start < len(raw) && raw[start] == '\r' {
			start++
		}
		if start < len(raw) && raw[start] == '\n' {
			start++
		}

		j := bytes.Index(raw[start:], endstreamKeyword)
		if j < 0 {
			break
		}
		end := start + j
		out = append(out, bytes.TrimRight(raw[start:end], "\r\n"))
		pos = end + len(endstreamKeyword)
	}
	return out
}

// inflate decodes FlateDecode data, trying the zlib wrapper first and bare
// deflate second. Truncated streams still return whatever was recovered.
func inflate(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}

	if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
		out, readErr := io.ReadAll(io.LimitReader(zr, maxInflatedStream))
		zr.Close()
		if len(out) > 0 {
			return out, true
		}
		if readErr == nil {
			return nil, false
		}
	}

	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	out, _ := io.ReadAll(io.LimitReader(fr, maxInflatedStream))
	return out, len(out) > 0
}

// tjWordGap is the TJ offset, in thousandths of a text space unit, beyond
// which a negative adjustment reads as a word break rather than kerning
const tjWordGap = 200

// literalText collects the literal strings of a content stream. Strings inside
// one BT/ET pair are joined with spaces and each text object ends a line, as
// does a T* move. The strings of a TJ array form a single run, split only
// where an offset opens a word gap.
func literalText(content []byte) string {
	var out strings.Builder
	var line []string
	var run strings.Builder
	inArray := false

	endLine := func() {
		if len(line) == 0 {
			return
		}
		out.WriteString(strings.Join(line, " "))
		out.WriteByte('\n')
		line = line[:0]
	}
	addString := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			line = append(line, s)
		}
	}

	for i := 0; i < len(content); i++ {
		switch c := content[i]; {
		case c == '(':
			s, next := readLiteral(content, i)
			if inArray {
				run.WriteString(s)
			} else {
				addString(s)
			}
			i = next - 1
		case c == '[':
			inArray = true
			run.Reset()
		case c == ']' && inArray:
			inArray = false
			addString(run.String())
		case inArray && (c == '-' || c == '.' || (c >= '0' && c <= '9')):
			j := i
			for j < len(content) && (content[j] == '-' || content[j] == '.' || (content[j] >= '0' && content[j] <= '9')) {
				j++
			}
			if adj, err := strconv.ParseFloat(string(content[i:j]), 64); err == nil && adj <= -tjWordGap {
				run.WriteByte(' ')
			}
			i = j - 1
		case c == '%':
			for i < len(content) && content[i] != '\n' && content[i] != '\r' {
				i++
			}
		case isOperatorStart(content, i):
			op := readOperator(content, i)
			if op == "ET" || op == "T*" || op == "'" || op == `"` {
				endLine()
			}
			i += len(op) - 1
		}
	}
	endLine()
	return out.String()
}

// readLiteral reads a parenthesized string starting at content[start] and
// returns its decoded text and the index just past the closing parenthesis
func readLiteral(content []byte, start int) (string, int) {
	var buf bytes.Buffer
	depth := 1
	i := start + 1

	for i < len(content) && depth > 0 {
		ch := content[i]
		switch ch {
		case '(':
			depth++
			buf.WriteByte(ch)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(ch)
			}
		case '\\':
			i++
			if i >= len(content) {
				break
			}
			switch esc := content[i]; esc {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '(', ')', '\\':
				buf.WriteByte(esc)
			case '\n':
			case '\r':
				if i+1 < len(content) && content[i+1] == '\n' {
					i++
				}
			default:
				if esc >= '0' && esc <= '7' {
					octal := []byte{esc}
					for k := 0; k < 2 && i+1 < len(content) && content[i+1] >= '0' && content[i+1] <= '7'; k++ {
						i++
						octal = append(octal, content[i])
					}
					if v, err := strconv.ParseUint(string(octal), 8, 8); err == nil {
						buf.WriteByte(byte(v))
					}
				} else {
					buf.WriteByte(esc)
				}
			}
		default:
			buf.WriteByte(ch)
		}
		i++
	}

	return decodeLatin1(buf.Bytes()), i
}

func isOperatorStart(content []byte, i int) bool {
	c := content[i]
	if c != '\'' && c != '"' && !isLetter(c) {
		return false
	}
	return i == 0 || isDelimiter(content[i-1])
}

// readOperator returns the operator token at content[i]
func readOperator(content []byte, i int) string {
	if content[i] == '\'' || content[i] == '"' {
		return string(content[i])
	}
	j := i
	for j < len(content) && (isLetter(content[j]) || content[j] == '*') {
		j++
	}
	return string(content[i:j])
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0, ')', ']', '>':
		return true
	}
	return false
}
