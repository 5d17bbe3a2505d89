package sht

import (
	"math"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/syntax-framework/ntjs/cmn"
)

var errorDirectiveTransclude = cmn.Err(
	"directive.transclude",
	"Invalid transclude value, expected true or 'element'.", "Directive: '%s'", "Element: %s",
)

var errorDirectiveMultipleTransclude = cmn.Err(
	"directive.transclude.multiple",
	"Multiple directives asking for transclusion.", "Directives: ['%s', '%s']", "Element: %s",
)

var errorCompileRender = cmn.Err(
	"compile.render",
	"Could not render the compiled html.", "File: '%s'", "Cause: %v",
)

// Compiler scope of html template being compiled
type Compiler struct {
	System         *TemplateSystem // Reference to the instance that generated this compiler
	Directives     *Directives     // The directives registered to run in this build
	TextDirectives *TextDirectives // The text directives registered to run in this build
	Context        *Context        // allows directives to save context information during compilation
	Filepath       string          // the file being compiled
	assets         []*cmn.Asset
	dynamics       []Dynamic
	sequence       int
}

// compileContext used for the compilation of the current node
type compileContext struct {
	maxPriority int
}

// syntaxDynamicIndexStr used to mark dynamic content locations in html
var syntaxDynamicIndexStr = "____sdi__"

// syntaxDynamicIndexRegex extra space, to be compatible with text and attributes
var syntaxDynamicIndexRegex = regexp.MustCompile(`\s` + syntaxDynamicIndexStr + `([0-9]+)__(="")?`)

func NewCompiler(ts *TemplateSystem) *Compiler {
	if ts.Directives == nil {
		ts.Directives = &Directives{}
	}
	if ts.TextDirectives == nil {
		ts.TextDirectives = &TextDirectives{}
	}
	return &Compiler{
		System:         ts,
		Directives:     ts.Directives.NewChild(),
		TextDirectives: ts.TextDirectives.NewChild(),
		Context:        NewContext(),
	}
}

// Compile the html template
func (c *Compiler) Compile(template string, filepath string) (*Compiled, error) {
	c.Filepath = filepath
	nodeList, err := Parse(template, filepath, c.Directives.rawTextElements()...)
	if err != nil {
		return nil, err
	}
	compiled, err := c.compile(nodeList, nil)
	if err != nil {
		return nil, err
	}
	compiled.root = true
	compiled.Assets = c.Assets()
	return compiled, nil
}

// NextID unique identifier inside this template, used to name anonymous content
func (c *Compiler) NextID() string {
	c.sequence++
	return HashXXH64([]byte(c.Filepath + "#" + strconv.Itoa(c.sequence)))
}

// Assets registered by directives during this build, in registration order
func (c *Compiler) Assets() []*cmn.Asset {
	out := make([]*cmn.Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

// RegisterAsset register an asset that can be used by this template. Assets with the same url (or the same content
// when inline) are registered once, the previous registration is returned.
func (c *Compiler) RegisterAsset(asset *cmn.Asset) *cmn.Asset {
	if len(asset.Content) > 0 {
		asset.Size = int64(len(asset.Content))
		if asset.Integrity == "" {
			asset.Integrity = "sha512-" + HashSha512Base64(asset.Content)
		}
		if asset.Etag == "" {
			asset.Etag = HashXXH64(asset.Content)
		}
	}

	for _, other := range c.assets {
		if asset.Url != "" && other.Url == asset.Url {
			return other
		}
		if asset.Url == "" && other.Url == "" && asset.Etag != "" && other.Etag == asset.Etag {
			return other
		}
	}

	name := strings.TrimSuffix(strings.TrimSuffix(asset.Name, ".js"), ".css")
	if name == "" {
		name = asset.Etag
	}
	for _, other := range c.assets {
		if other.Name == name {
			// name conflict, solved by a suffix. Names are only used at compile time
			name = name + "-" + HashXXH64([]byte(asset.Url+asset.Etag))[:8]
			break
		}
	}
	asset.Name = name

	c.assets = append(c.assets, asset)
	return asset
}

// RegisterAssetURL register an asset by url, relative or absolute
func (c *Compiler) RegisterAssetURL(src string, kind cmn.AssetType) (*cmn.Asset, error) {
	assetUrl, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return nil, err
	}
	name := path.Base(assetUrl.Path)
	if name == "." || name == "/" {
		name = HashXXH64([]byte(src))
	}
	return c.RegisterAsset(&cmn.Asset{
		Url:  assetUrl.String(),
		Name: name,
		Type: kind,
	}), nil
}

// RegisterAssetContent register an anonymous inline asset
func (c *Compiler) RegisterAssetContent(content string, kind cmn.AssetType) *cmn.Asset {
	return c.RegisterAsset(&cmn.Asset{
		Content: []byte(content),
		Type:    kind,
	})
}

// compile compile internal
func (c *Compiler) compile(nodeList []*Node, context *compileContext) (*Compiled, error) {
	if err := c.processNodes(nodeList, context); err != nil {
		return nil, err
	}
	return c.extractCompiled(nodeList)
}

// processNodes compiles the nodeList
func (c *Compiler) processNodes(nodeList []*Node, context *compileContext) error {
	for _, node := range nodeList {
		switch node.Type {
		case ElementNode:
			if err := c.compileElement(node, context); err != nil {
				return err
			}
		case TextNode:
			if err := c.compileTextNode(node); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) compileElement(node *Node, context *compileContext) error {
	maxPriority := math.MaxInt
	if context != nil {
		maxPriority = context.maxPriority
	}

	// get the directives that can be applied on that node
	directives, directiveAttrs, err := c.Directives.collect(node, maxPriority)
	if err != nil {
		return err
	}

	if len(directives) == 0 {
		return c.processNodes(node.GetChildNodes(), nil)
	}

	// directives see every attribute, the attributes that activated a directive are not rendered
	attrs := node.Attributes.Clone()
	for _, name := range directiveAttrs {
		node.Attributes.Remove(name)
	}

	dynamic, err := c.compileDirectives(directives, node, attrs, directiveAttrs)
	if err != nil {
		return err
	}

	if dynamic.transclude {
		c.replaceNodeByDynamic(node, dynamic)
		return nil
	}

	// replace attributes
	_, token := c.addDynamic(dynamic)
	node.Attributes = &Attributes{}
	node.Attributes.Add(&Attribute{Name: token, Key: token})

	if dynamic.terminal {
		return nil
	}
	return c.processNodes(node.GetChildNodes(), nil)
}

// compileTextNode checks if a TextNode has dynamic content and compiles it
func (c *Compiler) compileTextNode(node *Node) error {
	text, err := c.compileTextDirectives(node)
	if err != nil {
		return err
	}

	compiled, err := Interpolate(text)
	if err != nil {
		return err
	}

	// no interpolation found
	if compiled == nil {
		node.Data = text
		return nil
	}

	out := &strings.Builder{}
	out.WriteString(compiled.static[0])
	for i, dynamic := range compiled.dynamics {
		_, token := c.addDynamic(dynamic)
		out.WriteString(" " + token) // extra space, see syntaxDynamicIndexRegex
		out.WriteString(compiled.static[i+1])
	}
	node.Data = out.String()
	return nil
}

// extractCompiled renders the nodes and transforms them into a Compiled
func (c *Compiler) extractCompiled(nodeList []*Node) (*Compiled, error) {

	var prev *Node
	root := &Node{Type: DocumentNode}
	for _, node := range nodeList {
		node.Parent = root
		node.PrevSibling = prev
		node.NextSibling = nil
		if prev == nil {
			root.FirstChild = node
		} else {
			prev.NextSibling = node
		}
		root.LastChild = node
		prev = node
	}

	htmlStr, err := root.Render()
	if err != nil {
		return nil, errorCompileRender(c.Filepath, err)
	}

	// second phase of processing, fetches the tokens and generates the final executable
	var static []string
	var dynamics []Dynamic

	start := 0
	for _, match := range RegexExecAll(syntaxDynamicIndexRegex, htmlStr) {
		static = append(static, htmlStr[start:match.start])
		start = match.end

		dynamicIndex, _ := strconv.Atoi(match.group[1])
		dynamics = append(dynamics, c.dynamics[dynamicIndex])
	}
	static = append(static, htmlStr[start:])

	return newCompiled(static, dynamics), nil
}

// Once the directives have been collected, their compile functions are executed. This method is responsible for
// terminating the application of the directives if the terminal directive has been reached.
func (c *Compiler) compileDirectives(
	directives []*Directive, node *Node, attrs *Attributes, hidden []string,
) (*DynamicDirectives, error) {

	terminalPriority := math.MinInt
	transcludeName := ""

	dynamic := &DynamicDirectives{
		attrs:  attrs,
		hidden: hidden,
	}

	// executes all directives on the current element
	for _, directive := range directives {
		if terminalPriority > directive.Priority {
			break // prevent further processing of directives
		}

		leaveFunc := directive.Leave
		processFunc := directive.Process

		if directive.Compile != nil {
			methods, err := directive.Compile(node, attrs, c)
			if err != nil {
				return nil, err
			}
			if methods != nil {
				if methods.Process != nil {
					processFunc = methods.Process
				}
				if methods.Leave != nil {
					leaveFunc = methods.Leave
				}
			}
		}

		if directive.Scope {
			dynamic.scope = true
		}

		transcludeOnThisDirective := false
		if transclude := directive.Transclude; transclude != nil && transclude != false {
			if dynamic.transclude {
				return nil, errorDirectiveMultipleTransclude(transcludeName, directive.Name, node.DebugTag())
			}
			dynamic.transclude = true
			transcludeOnThisDirective = true
			transcludeName = directive.Name

			var contentCompiled *Compiled
			var err error
			switch transclude {
			case "element":
				// the element itself is compiled again, applying only the directives with lower priority
				terminalPriority = directive.Priority
				contentCompiled, err = c.compile([]*Node{c.cloneElement(node)}, &compileContext{
					maxPriority: directive.Priority,
				})
			case true:
				contentCompiled, err = c.compile(node.DetachChildren(), nil)
			default:
				return nil, errorDirectiveTransclude(directive.Name, node.DebugTag())
			}
			if err != nil {
				return nil, err
			}
			dynamic.transcludeSlots = map[string]*Compiled{"*": contentCompiled}
		}

		if processFunc != nil {
			dynamic.process = append(dynamic.process, &directiveProcessInfo{
				name:       directive.Name,
				callback:   processFunc,
				transclude: transcludeOnThisDirective,
			})
		}

		if leaveFunc != nil {
			dynamic.leave = append(dynamic.leave, leaveFunc)
		}

		if directive.Terminal {
			dynamic.terminal = true
			if directive.Priority > terminalPriority {
				terminalPriority = directive.Priority
			}
		}
	}

	return dynamic, nil
}

// cloneElement copy of the element (without the attributes that activated directives), the children are moved to
// the copy
func (c *Compiler) cloneElement(node *Node) *Node {
	clone := &Node{
		Type:       node.Type,
		Data:       node.Data,
		DataAtom:   node.DataAtom,
		Namespace:  node.Namespace,
		Attributes: node.Attributes.Clone(),
		File:       node.File,
		Line:       node.Line,
		Column:     node.Column,
	}
	for _, child := range node.DetachChildren() {
		child.PrevSibling = nil
		child.NextSibling = nil
		clone.AppendChild(child)
	}
	return clone
}

// addDynamic adds a dynamic to the compilation context and returns its index and identifier
func (c *Compiler) addDynamic(dynamic Dynamic) (int, string) {
	index := len(c.dynamics)
	c.dynamics = append(c.dynamics, dynamic)
	return index, syntaxDynamicIndexStr + strconv.Itoa(index) + "__"
}

// replaceNodeByDynamic replaces an html node with an executable dynamic
func (c *Compiler) replaceNodeByDynamic(node *Node, dynamic Dynamic) {
	_, token := c.addDynamic(dynamic)

	node.Type = TextNode
	node.Data = " " + token // extra space, see syntaxDynamicIndexRegex
	node.DataAtom = 0
	node.Attributes = nil
	node.DetachChildren()
}
