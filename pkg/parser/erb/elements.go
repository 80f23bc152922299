package erb

import (
	"strings"

	"golang.org/x/net/html/atom"
)

//nolint:gochecknoglobals // Read-only element tables.
var (
	voidElements = atomSet(
		atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param, atom.Source,
		atom.Track, atom.Wbr,
	)

	rawTextElements = atomSet(atom.Script, atom.Style, atom.Textarea, atom.Title)

	// optionalEndElements may omit their end tag without a parse error.
	optionalEndElements = atomSet(
		atom.Li, atom.Dt, atom.Dd, atom.P, atom.Option, atom.Optgroup,
		atom.Tr, atom.Td, atom.Th, atom.Thead, atom.Tbody, atom.Tfoot,
		atom.Rt, atom.Rp, atom.Colgroup, atom.Caption,
	)

	// closesParagraph lists elements whose start tag ends an open <p>.
	closesParagraph = atomSet(
		atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Details,
		atom.Div, atom.Dl, atom.Fieldset, atom.Figcaption, atom.Figure,
		atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5,
		atom.H6, atom.Header, atom.Hr, atom.Main, atom.Menu, atom.Nav, atom.Ol,
		atom.P, atom.Pre, atom.Section, atom.Table, atom.Ul,
	)
)

func atomSet(atoms ...atom.Atom) map[atom.Atom]bool {
	set := make(map[atom.Atom]bool, len(atoms))
	for _, a := range atoms {
		set[a] = true
	}
	return set
}

func lookup(name string) atom.Atom {
	return atom.Lookup([]byte(strings.ToLower(name)))
}

// IsVoidElement reports whether name is an HTML void element.
func IsVoidElement(name string) bool {
	return voidElements[lookup(name)]
}

// IsRawTextElement reports whether the content of name is not parsed as HTML.
func IsRawTextElement(name string) bool {
	return rawTextElements[lookup(name)]
}

// HasOptionalEndTag reports whether name may omit its end tag.
func HasOptionalEndTag(name string) bool {
	return optionalEndElements[lookup(name)]
}

// impliesEnd reports whether a start tag for next implicitly closes an open
// element named open.
func impliesEnd(open, next string) bool {
	openAtom, nextAtom := lookup(open), lookup(next)
	switch openAtom {
	case atom.Li:
		return nextAtom == atom.Li
	case atom.Dt, atom.Dd:
		return nextAtom == atom.Dt || nextAtom == atom.Dd
	case atom.P:
		return closesParagraph[nextAtom]
	case atom.Option:
		return nextAtom == atom.Option || nextAtom == atom.Optgroup
	case atom.Optgroup:
		return nextAtom == atom.Optgroup
	case atom.Td, atom.Th:
		return nextAtom == atom.Td || nextAtom == atom.Th || nextAtom == atom.Tr
	case atom.Tr:
		return nextAtom == atom.Tr
	case atom.Thead, atom.Tbody:
		return nextAtom == atom.Tbody || nextAtom == atom.Tfoot
	case atom.Rt, atom.Rp:
		return nextAtom == atom.Rt || nextAtom == atom.Rp
	default:
		return false
	}
}
