// Package langdetect classifies template files.
// It uses go-enry to decide whether a path or a piece of content is an
// HTML+ERB template, plain HTML or something the linter should not touch.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by Detect.
const (
	LangERB   = "erb"
	LangHTML  = "html"
	LangOther = ""
)

// Linguist names of the languages the linter cares about.
const (
	enryERB  = "HTML+ERB"
	enryHTML = "HTML"
)

// IsERB reports whether path names an HTML+ERB template by its extension.
// "app/views/users/_form.html.erb" and "layout.rhtml" are templates.
func IsERB(path string) bool {
	if path == "" {
		return false
	}
	return slices.Contains(enry.GetLanguagesByExtension(filepath.Base(path), nil, nil), enryERB)
}

// IsVendored reports whether path lies in a vendored directory
// (node_modules, vendor/ and the like).
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

// Detect returns the language of a file.
// The extension decides when it is known; otherwise the content does.
func Detect(path string, content []byte) string {
	if IsERB(path) {
		return LangERB
	}
	if path != "" {
		langs := enry.GetLanguagesByExtension(filepath.Base(path), content, nil)
		if slices.Contains(langs, enryHTML) {
			if hasERBTags(content) {
				return LangERB
			}
			return LangHTML
		}
		if len(langs) > 0 {
			return LangOther
		}
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return LangOther
	}
	if looksLikeHTML(content) {
		if hasERBTags(content) {
			return LangERB
		}
		return LangHTML
	}

	if lang, safe := enry.GetLanguageByClassifier(content, []string{enryERB, enryHTML}); safe {
		switch lang {
		case enryERB:
			return LangERB
		case enryHTML:
			return LangHTML
		}
	}
	return LangOther
}

// hasERBTags checks for a complete ERB tag.
func hasERBTags(content []byte) bool {
	start := bytes.Index(content, []byte("<%"))
	return start >= 0 && bytes.Contains(content[start:], []byte("%>"))
}

// looksLikeHTML checks for patterns that are highly indicative of markup.
func looksLikeHTML(content []byte) bool {
	lower := bytes.ToLower(bytes.TrimSpace(content))
	for _, marker := range [][]byte{
		[]byte("<!doctype html"),
		[]byte("<html"),
		[]byte("<head>"),
		[]byte("<body"),
		[]byte("<div"),
		[]byte("</"),
	} {
		if bytes.Contains(lower, marker) {
			return true
		}
	}
	return false
}
