package erb

import "strings"

// erbOpeners lists ERB start delimiters, longest first.
//
//nolint:gochecknoglobals // Read-only lookup table.
var erbOpeners = []string{"<%==", "<%=", "<%#", "<%-", "<%"}

// erbTag is the literal split of one ERB tag.
type erbTag struct {
	open    string
	content string
	close   string
	end     int // offset just past the tag
	closed  bool
}

// isERBStart reports whether an ERB tag starts at pos. "<%%" is an escaped
// literal and does not start a tag.
func isERBStart(src string, pos int) bool {
	return strings.HasPrefix(src[pos:], "<%") && !strings.HasPrefix(src[pos:], "<%%")
}

// scanERB splits the ERB tag starting at pos.
func scanERB(src string, pos int) erbTag {
	tag := erbTag{open: "<%"}
	for _, opener := range erbOpeners {
		if strings.HasPrefix(src[pos:], opener) {
			tag.open = opener
			break
		}
	}

	bodyStart := pos + len(tag.open)
	idx := strings.Index(src[bodyStart:], "%>")
	if idx < 0 {
		tag.content = src[bodyStart:]
		tag.end = len(src)
		return tag
	}

	body := src[bodyStart : bodyStart+idx]
	tag.close = "%>"
	if strings.HasSuffix(body, "-") {
		body = body[:len(body)-1]
		tag.close = "-%>"
	}
	tag.content = body
	tag.end = bodyStart + idx + len("%>")
	tag.closed = true
	return tag
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// hasPrefixFold reports whether src[pos:] starts with prefix, ignoring ASCII case.
func hasPrefixFold(src string, pos int, prefix string) bool {
	return len(src)-pos >= len(prefix) && strings.EqualFold(src[pos:pos+len(prefix)], prefix)
}

// tagStartsAt reports whether an HTML open or close tag starts at pos.
func tagStartsAt(src string, pos int) bool {
	if pos+1 >= len(src) || src[pos] != '<' {
		return false
	}
	if isASCIILetter(src[pos+1]) {
		return true
	}
	return src[pos+1] == '/' && pos+2 < len(src) && isASCIILetter(src[pos+2])
}

// constructStartsAt reports whether any markup construct starts at pos.
func constructStartsAt(src string, pos int) bool {
	if src[pos] != '<' {
		return false
	}
	return isERBStart(src, pos) ||
		tagStartsAt(src, pos) ||
		strings.HasPrefix(src[pos:], "<!") ||
		strings.HasPrefix(src[pos:], "<?")
}

// rawTextEnd reports whether the end tag for the raw text element name
// starts at pos.
func rawTextEnd(src string, pos int, name string) bool {
	if !hasPrefixFold(src, pos, "</"+name) {
		return false
	}
	next := pos + 2 + len(name)
	return next >= len(src) || isSpace(src[next]) || src[next] == '>' || src[next] == '/'
}

// scanName returns the end of a tag name starting at pos.
func scanName(src string, pos int) int {
	for pos < len(src) {
		c := src[pos]
		if isSpace(c) || c == '>' || c == '/' || c == '<' || c == '=' || c == '"' || c == '\'' {
			break
		}
		pos++
	}
	return pos
}

// scanAttributeName returns the end of an attribute name starting at pos.
func scanAttributeName(src string, pos int) int {
	for pos < len(src) {
		c := src[pos]
		if isSpace(c) || c == '>' || c == '=' || c == '"' || c == '\'' || isERBStart(src, pos) {
			break
		}
		if c == '/' && pos+1 < len(src) && src[pos+1] == '>' {
			break
		}
		pos++
	}
	return pos
}

// scanSpaces returns the end of a whitespace run starting at pos.
func scanSpaces(src string, pos int) int {
	for pos < len(src) && isSpace(src[pos]) {
		pos++
	}
	return pos
}

// indexFrom returns the index of needle in src at or after pos, or -1.
func indexFrom(src string, pos int, needle string) int {
	idx := strings.Index(src[pos:], needle)
	if idx < 0 {
		return -1
	}
	return pos + idx
}
