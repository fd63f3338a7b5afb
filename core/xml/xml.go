// Package xml wraps xmlquery with the read, query and in-place mutation
// operations used on corpus documents.
//
// Security Notes:
//   - xmlquery parses with Go's encoding/xml, which never fetches external
//     entities, so XXE (CWE-611) does not apply.
//   - Serialization preserves whitespace text nodes so untouched regions of
//     a document round-trip unchanged.
package xml

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an element or text node.
type Node struct {
	node *xmlquery.Node
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses XML from r.
func ParseReader(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// NewDocument creates an empty document with an XML declaration and a
// root element called rootName.
func NewDocument(rootName string) *Document {
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	decl := &xmlquery.Node{Type: xmlquery.DeclarationNode, Data: "xml"}
	xmlquery.AddAttr(decl, "version", "1.0")
	xmlquery.AddAttr(decl, "encoding", "UTF-8")
	xmlquery.AddChild(doc, decl)
	xmlquery.AddChild(doc, &xmlquery.Node{Type: xmlquery.ElementNode, Data: rootName})
	return &Document{root: doc}
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d == nil || d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query against the document.
func (d *Document) XPath(expr string) ([]*Node, error) {
	return query(d.root, expr)
}

func query(top *xmlquery.Node, expr string) ([]*Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	found := xmlquery.QuerySelectorAll(top, compiled)
	result := make([]*Node, len(found))
	for i, n := range found {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// Serialize converts the document back to XML bytes. Text is written with
// only &, < and > escaped and childless elements as empty tags, so a parsed
// document serializes back to its source apart from entity spelling.
func (d *Document) Serialize() []byte {
	if d == nil || d.root == nil {
		return nil
	}
	var buf bytes.Buffer
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		writeNode(&buf, child)
	}
	return buf.Bytes()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#9;", "\n", "&#10;", "\r", "&#13;")
)

func writeNode(buf *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.TextNode:
		textEscaper.WriteString(buf, n.Data)
		return
	case xmlquery.CharDataNode:
		fmt.Fprintf(buf, "<![CDATA[%s]]>", n.Data)
		return
	case xmlquery.CommentNode:
		fmt.Fprintf(buf, "<!--%s-->", n.Data)
		return
	case xmlquery.NotationNode:
		fmt.Fprintf(buf, "<!%s>", n.Data)
		return
	case xmlquery.ProcessingInstruction:
		if n.ProcInst != nil && n.ProcInst.Inst != "" {
			fmt.Fprintf(buf, "<?%s %s?>", n.ProcInst.Target, n.ProcInst.Inst)
		} else if n.ProcInst != nil {
			fmt.Fprintf(buf, "<?%s?>", n.ProcInst.Target)
		}
		return
	case xmlquery.DeclarationNode:
		buf.WriteString("<?" + n.Data)
		writeAttrs(buf, n)
		buf.WriteString("?>")
		return
	}

	buf.WriteByte('<')
	buf.WriteString(qualified(n.Prefix, n.Data))
	writeAttrs(buf, n)
	if n.FirstChild == nil {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		writeNode(buf, child)
	}
	buf.WriteString("</" + qualified(n.Prefix, n.Data) + ">")
}

func writeAttrs(buf *bytes.Buffer, n *xmlquery.Node) {
	for _, a := range n.Attr {
		buf.WriteByte(' ')
		buf.WriteString(qualified(a.Name.Space, a.Name.Local))
		buf.WriteString(`="`)
		attrEscaper.WriteString(buf, a.Value)
		buf.WriteByte('"')
	}
}

func qualified(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// Name returns the element name.
func (n *Node) Name() string {
	if n == nil || n.node == nil || n.node.Type != xmlquery.ElementNode {
		return ""
	}
	return n.node.Data
}

// IsText reports whether n is a text or CDATA node.
func (n *Node) IsText() bool {
	return n != nil && n.node != nil &&
		(n.node.Type == xmlquery.TextNode || n.node.Type == xmlquery.CharDataNode)
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.node != nil && n.node.Type == xmlquery.ElementNode
}

// Data returns the raw text of a text node.
func (n *Node) Data() string {
	if !n.IsText() {
		return ""
	}
	return n.node.Data
}

// InnerText returns all text content of the node and its descendants.
func (n *Node) InnerText() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Children returns the child element nodes.
func (n *Node) Children() []*Node {
	var children []*Node
	for _, c := range n.Nodes() {
		if c.IsElement() {
			children = append(children, c)
		}
	}
	return children
}

// Nodes returns the element and text children in document order.
func (n *Node) Nodes() []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	var nodes []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.ElementNode, xmlquery.TextNode, xmlquery.CharDataNode:
			nodes = append(nodes, &Node{node: child})
		}
	}
	return nodes
}

// XPath runs a query relative to n.
func (n *Node) XPath(expr string) ([]*Node, error) {
	if n == nil || n.node == nil {
		return nil, nil
	}
	return query(n.node, expr)
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.node.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			n.node.Attr[i].Value = value
			return
		}
	}
	xmlquery.AddAttr(n.node, name, value)
}

// RemoveChildren detaches every child node.
func (n *Node) RemoveChildren() {
	for child := n.node.FirstChild; child != nil; {
		next := child.NextSibling
		xmlquery.RemoveFromTree(child)
		child = next
	}
}

// AppendText appends a text node. Empty text is ignored.
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	if last := n.node.LastChild; last != nil && last.Type == xmlquery.TextNode {
		last.Data += text
		return
	}
	xmlquery.AddChild(n.node, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
}

// AppendElement appends a new empty element and returns it.
func (n *Node) AppendElement(name string) *Node {
	child := &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
	xmlquery.AddChild(n.node, child)
	return &Node{node: child}
}

// AppendNode attaches a detached node (typically a Clone) as the last child.
func (n *Node) AppendNode(child *Node) {
	xmlquery.AddChild(n.node, child.node)
}

// Clone returns a detached deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil || n.node == nil {
		return nil
	}
	return &Node{node: cloneTree(n.node)}
}

func cloneTree(src *xmlquery.Node) *xmlquery.Node {
	dst := &xmlquery.Node{
		Type:         src.Type,
		Data:         src.Data,
		Prefix:       src.Prefix,
		NamespaceURI: src.NamespaceURI,
		Attr:         append([]xmlquery.Attr(nil), src.Attr...),
	}
	for child := src.FirstChild; child != nil; child = child.NextSibling {
		xmlquery.AddChild(dst, cloneTree(child))
	}
	return dst
}
