package contactio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"contactmerge/internal/contact"
)

const (
	vcardFoldWidth      = 75
	vcardDefaultVersion = "3.0"
	vcardVersionField   = "version"
)

// ErrMalformedVCard reports structurally invalid vCard input.
var ErrMalformedVCard = errors.New("malformed vcard")

type logicalLine struct {
	text string
	num  int
}

// ReadVCard reads BEGIN:VCARD ... END:VCARD blocks. Property names are
// lower-cased with groups and parameters dropped. Repeated properties are
// joined with ";" at the position of their first occurrence.
func ReadVCard(r io.Reader) ([]contact.Record, error) {
	lines, err := unfoldLines(r)
	if err != nil {
		return nil, err
	}

	var (
		records []contact.Record
		fields  []contact.Field
		index   map[string]int
		inCard  bool
		begin   int
	)
	for _, line := range lines {
		if strings.TrimSpace(line.text) == "" {
			continue
		}
		name, value, ok := strings.Cut(line.text, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: missing ':'", ErrMalformedVCard, line.num)
		}
		name = propertyName(name)
		switch {
		case name == "begin" && strings.EqualFold(strings.TrimSpace(value), "vcard"):
			if inCard {
				return nil, fmt.Errorf("%w: line %d: BEGIN:VCARD inside card opened at line %d", ErrMalformedVCard, line.num, begin)
			}
			inCard, begin = true, line.num
			fields, index = nil, make(map[string]int)
		case name == "end" && strings.EqualFold(strings.TrimSpace(value), "vcard"):
			if !inCard {
				return nil, fmt.Errorf("%w: line %d: END:VCARD without BEGIN", ErrMalformedVCard, line.num)
			}
			records = append(records, contact.NewRecord(fields...))
			inCard = false
		case !inCard:
			return nil, fmt.Errorf("%w: line %d: property outside BEGIN:VCARD", ErrMalformedVCard, line.num)
		case name == "":
			return nil, fmt.Errorf("%w: line %d: empty property name", ErrMalformedVCard, line.num)
		default:
			value = unescapeValue(value)
			if i, seen := index[name]; seen {
				fields[i].Value += ";" + value
				continue
			}
			index[name] = len(fields)
			fields = append(fields, contact.Field{Name: name, Value: value})
		}
	}
	if inCard {
		return nil, fmt.Errorf("%w: card opened at line %d is not terminated", ErrMalformedVCard, begin)
	}
	return records, nil
}

// unfoldLines joins continuation lines (leading space or tab) onto the
// previous line. Each logical line keeps the number of its first physical line.
func unfoldLines(r io.Reader) ([]logicalLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []logicalLine
	num := 0
	for scanner.Scan() {
		num++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if num == 1 {
			text = strings.TrimPrefix(text, utf8BOM)
		}
		if len(lines) > 0 && text != "" && (text[0] == ' ' || text[0] == '\t') {
			lines[len(lines)-1].text += text[1:]
			continue
		}
		lines = append(lines, logicalLine{text: text, num: num})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vcard: %w", err)
	}
	return lines, nil
}

// propertyName strips parameters and the group prefix and lower-cases the rest.
func propertyName(raw string) string {
	name, _, _ := strings.Cut(raw, ";")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func unescapeValue(value string) string {
	if !strings.ContainsRune(value, '\\') {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i == len(value)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch value[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		case '\\', ',', ';', ':':
			b.WriteByte(value[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// vcardListProperties use commas as value separators, so their commas are
// written as-is. N and ADR also use commas between values of one component.
var vcardListProperties = map[string]bool{
	"n":          true,
	"adr":        true,
	"categories": true,
	"nickname":   true,
}

// escapeValue escapes backslashes and newlines, and commas for every property
// not in vcardListProperties. Semicolons are left alone: they separate the
// components of N, ADR, and ORG and join repeated properties.
func escapeValue(name, value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "\r\n", `\n`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	if !vcardListProperties[name] {
		value = strings.ReplaceAll(value, ",", `\,`)
	}
	return value
}

// WriteVCard writes one card per record: VERSION first, then every field of
// fields that the record carries with a non-empty value. The match and
// certainty annotations are never exported.
func WriteVCard(w io.Writer, records []contact.Record, fields contact.FieldOrder) error {
	bw := bufio.NewWriter(w)
	order := exportOrder(records, fields)
	for _, r := range records {
		version := strings.TrimSpace(r.Value(vcardVersionField))
		if version == "" {
			version = vcardDefaultVersion
		}
		writeFolded(bw, "BEGIN:VCARD")
		writeFolded(bw, "VERSION:"+version)
		for _, name := range order {
			if name == vcardVersionField {
				continue
			}
			value := r.Value(name)
			if value == "" {
				continue
			}
			writeFolded(bw, strings.ToUpper(name)+":"+escapeValue(name, value))
		}
		writeFolded(bw, "END:VCARD")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write vcard: %w", err)
	}
	return nil
}

// writeFolded writes line with CRLF, folding it into chunks of at most
// vcardFoldWidth octets without splitting a UTF-8 sequence. Continuation
// chunks start with a single space that counts toward the limit.
func writeFolded(w *bufio.Writer, line string) {
	limit := vcardFoldWidth
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		w.WriteString(line[:cut])
		w.WriteString("\r\n ")
		line = line[cut:]
		limit = vcardFoldWidth - 1
	}
	w.WriteString(line)
	w.WriteString("\r\n")
}
