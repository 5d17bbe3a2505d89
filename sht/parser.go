package sht

import (
	"io"
	"strings"

	"github.com/erinpentecost/byteline"
	"github.com/syntax-framework/ntjs/cmn"
	"golang.org/x/net/html"
)

var errorParseTokenizer = cmn.Err(
	"parse.tokenizer",
	"An unexpected error occurred while tokenizing the html.", "File: '%s'", "Line: %d", "Column: %d", "Cause: %v",
)

var errorParseEndTag = cmn.Err(
	"parse.endingTag",
	"Mismatched ending tag.", "Expected: '%s'", "Found: '%s'", "File: '%s'", "Line: %d", "Column: %d",
)

// nodeStack is a stack of nodes.
type nodeStack []*Node

// pop the stack, nil if s is empty.
func (s *nodeStack) pop() *Node {
	i := len(*s)
	if i == 0 {
		return nil
	}
	n := (*s)[i-1]
	*s = (*s)[:i-1]
	return n
}

// top returns the most recently pushed node, or nil if s is empty.
func (s *nodeStack) top() *Node {
	if i := len(*s); i > 0 {
		return (*s)[i-1]
	}
	return nil
}

type parser struct {
	file  string
	root  *Node
	stack nodeStack
}

func (p *parser) top() *Node {
	if n := p.stack.top(); n != nil {
		return n
	}
	return p.root
}

// addChild adds a child node n to the top element, and pushes n onto the stack
// of open elements if it is an element node.
func (p *parser) addChild(n *Node) {
	p.top().AppendChild(n)

	if n.Type == ElementNode {
		p.stack = append(p.stack, n)
	}
}

// addText adds text to the preceding node if it is a text node, or else it
// calls addChild with a new text node.
func (p *parser) addText(text string, line int, column int) {
	if text == "" {
		return
	}

	t := p.top()
	if n := t.LastChild; n != nil && n.Type == TextNode {
		n.Data += text
		return
	}

	p.addChild(&Node{
		Type:   TextNode,
		Data:   text,
		File:   p.file,
		Line:   line,
		Column: column,
	})
}

func (p *parser) createElement(token html.Token, line int, column int) *Node {
	attributes := &Attributes{}
	for _, attr := range token.Attr {
		attributes.Add(NewAttribute(attr.Key, attr.Val, attr.Namespace))
	}
	return &Node{
		Type:       ElementNode,
		Data:       token.Data,
		DataAtom:   token.DataAtom,
		Attributes: attributes,
		File:       p.file,
		Line:       line,
		Column:     column,
	}
}

// rawTextMarker attribute of the <script> inserted around the content of raw text elements
const rawTextMarker = "sht-raw"

// wrapRawText wraps the content of the raw text elements in a marked <script>, so the tokenizer keeps it as text.
// No line break is added.
func wrapRawText(content string, elements []string) string {
	for _, name := range elements {
		content = wrapRawElement(content, name)
	}
	return content
}

func wrapRawElement(content string, name string) string {
	open := "<" + name
	closing := "</" + name
	out := &strings.Builder{}
	pos := 0
	for {
		start := indexTag(content, open, pos)
		if start < 0 {
			break
		}
		end := tagEnd(content, start+len(open))
		if end < 0 {
			break
		}
		if content[end-1] == '/' {
			out.WriteString(content[pos : end+1])
			pos = end + 1
			continue
		}
		bodyStart := end + 1
		bodyEnd := indexTag(content, closing, bodyStart)
		if bodyEnd < 0 {
			break
		}

		body := content[bodyStart:bodyEnd]
		out.WriteString(content[pos:bodyStart])
		if trimmed := strings.TrimSpace(body); len(trimmed) >= 7 && strings.EqualFold(trimmed[:7], "<script") {
			out.WriteString(body)
		} else {
			out.WriteString("<script " + rawTextMarker + ">" + body + "</script>")
		}
		pos = bodyEnd
	}
	out.WriteString(content[pos:])
	return out.String()
}

// indexTag index of `<name` or `</name` at or after from, case-insensitive. The name must end the tag or be followed
// by a space.
func indexTag(content string, tag string, from int) int {
	for i := from; i+len(tag) <= len(content); i++ {
		if content[i] != '<' || !strings.EqualFold(content[i:i+len(tag)], tag) {
			continue
		}
		next := i + len(tag)
		if next == len(content) || strings.IndexByte(" \t\n\r\f/>", content[next]) >= 0 {
			return i
		}
	}
	return -1
}

// tagEnd index of the '>' that closes the tag, quoted attribute values are skipped
func tagEnd(content string, from int) int {
	var quote byte
	for i := from; i < len(content); i++ {
		c := content[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i
		}
	}
	return -1
}

func isRawTextWrapper(token html.Token) bool {
	return token.Data == "script" && len(token.Attr) == 1 && token.Attr[0].Key == rawTextMarker
}

// Parse the html template. Returns the root nodes, without parent. The content of the rawText elements is not
// parsed, it becomes a single text node, the way the content of <script> is.
func Parse(content string, filepath string, rawText ...string) ([]*Node, error) {
	if len(rawText) > 0 {
		content = wrapRawText(content, rawText)
	}

	lineTracker := byteline.NewReader(strings.NewReader(content))
	tokenizer := html.NewTokenizer(lineTracker)

	p := &parser{file: filepath, root: &Node{Type: DocumentNode}}
	inRawText := false

	for {
		// CDATA sections are allowed only in foreign content.
		n := p.stack.top()
		tokenizer.AllowCDATA(n != nil && n.Namespace != "")

		tokenType := tokenizer.Next()

		// position of the token start
		totalOffset, _ := lineTracker.GetCurrentOffset()
		tokenOffset := totalOffset - len(tokenizer.Buffered()) - len(tokenizer.Raw())
		if tokenOffset < 0 {
			tokenOffset = 0
		}
		line, column, _ := lineTracker.GetLineAndColumn(tokenOffset)

		if tokenType == html.ErrorToken {
			if err := tokenizer.Err(); err != io.EOF {
				return nil, errorParseTokenizer(filepath, line, column, err)
			}
			break
		}

		token := tokenizer.Token()
		switch token.Type {
		case html.TextToken:
			p.addText(token.Data, line, column)
		case html.StartTagToken:
			if isRawTextWrapper(token) {
				inRawText = true
				continue
			}
			p.addChild(p.createElement(token, line, column))
			if HtmlVoidElements[token.Data] {
				p.stack.pop()
			}
		case html.SelfClosingTagToken:
			p.addChild(p.createElement(token, line, column))
			p.stack.pop()
		case html.EndTagToken:
			if inRawText && token.Data == "script" {
				inRawText = false
				continue
			}
			if HtmlVoidElements[token.Data] {
				// </br>, </link>
				continue
			}
			expected := ""
			if top := p.stack.top(); top != nil {
				expected = top.Data
			}
			if expected != token.Data {
				return nil, errorParseEndTag(expected, token.Data, filepath, line, column)
			}
			p.stack.pop()
		case html.CommentToken:
			p.addChild(&Node{Type: CommentNode, Data: token.Data, File: filepath, Line: line, Column: column})
		case html.DoctypeToken:
			p.addChild(&Node{Type: DoctypeNode, Data: token.Data, File: filepath, Line: line, Column: column})
		}
	}

	return p.root.DetachChildren(), nil
}
