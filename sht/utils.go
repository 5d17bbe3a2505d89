package sht

import (
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/cespare/xxhash"
)

type RegexMatch struct {
	start int      // The 0-based index of the search at which the result was found.
	end   int      // The 0-based index of the end of the result.
	text  string   // The full string of characters matched
	group []string // An array where each entry represents a substring group.
}

// RegexExecAll https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/RegExp/exec
func RegexExecAll(re *regexp.Regexp, input string) []*RegexMatch {
	out := make([]*RegexMatch, 0)
	for _, result := range re.FindAllStringSubmatchIndex(input, -1) {
		size := len(result) / 2
		groups := make([]string, size)
		for i := 0; i < size; i++ {
			start, end := result[i*2], result[i*2+1]
			if start >= 0 {
				groups[i] = input[start:end]
			}
		}
		out = append(out, &RegexMatch{
			start: result[0],
			end:   result[1],
			text:  groups[0],
			group: groups,
		})
	}
	return out
}

const escapedChars = "&'<>\"\r"

func HtmlEscape(s string) string {
	if strings.IndexAny(s, escapedChars) == -1 {
		return s
	}
	w := &bytes.Buffer{}
	i := strings.IndexAny(s, escapedChars)
	for i != -1 {
		w.WriteString(s[:i])
		var esc string
		switch s[i] {
		case '&':
			esc = "&amp;"
		case '\'':
			// "&#39;" is shorter than "&apos;" and apos was not in HTML until HTML5.
			esc = "&#39;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			// "&#34;" is shorter than "&quot;".
			esc = "&#34;"
		case '\r':
			esc = "&#13;"
		}
		s = s[i+1:]
		w.WriteString(esc)
		i = strings.IndexAny(s, escapedChars)
	}
	w.WriteString(s)
	return w.String()
}

// HtmlVoidElements Void elements are those that can't have any contents.
var HtmlVoidElements = CreateBoolMap([]string{
	"area", "base", "br", "col", "embed", "hr", "img", "input", "keygen", "link", "meta", "param", "source", "track", "wbr",
})

// HtmlBooleanAttributes https://html.spec.whatwg.org/#boolean-attribute
var HtmlBooleanAttributes = CreateBoolMap([]string{
	"allowfullscreen", "async", "autofocus", "autoplay", "checked", "controls", "default", "defer", "disabled",
	"formnovalidate", "ismap", "itemscope", "loop", "multiple", "muted", "nomodule", "novalidate", "open", "playsinline",
	"readonly", "required", "reversed", "selected", "truespeed",
})

// CreateBoolMap lookup table for a list of names
func CreateBoolMap(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, name := range names {
		out[name] = true
	}
	return out
}

var regPrefix = regexp.MustCompile(`^((?:x|data)[:\-_])`)

// NormalizeName "data-if", "x-if" and "IF" are all "if"
func NormalizeName(name string) string {
	return regPrefix.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
}

// HashXXH64 hex encoded xxhash of the content
func HashXXH64(content []byte) string {
	h := xxhash.New()
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// HashSha512Base64 used by subresource integrity
func HashSha512Base64(content []byte) string {
	sum := sha512.Sum512(content)
	return base64.StdEncoding.EncodeToString(sum[:])
}
