// internal/dom/styles.go
package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// declaration is a single property/value pair from an inline style attribute.
// Order is preserved so that rewriting an attribute stays a minimal diff.
type declaration struct {
	Property string
	Value    string
}

func parseInlineStyle(styleAttr string) []declaration {
	var decls []declaration
	parts := strings.Split(styleAttr, ";")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) == 2 {
			prop, val := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
			if prop != "" {
				decls = append(decls, declaration{Property: strings.ToLower(prop), Value: val})
			}
		}
	}
	return decls
}

func serializeInlineStyle(decls []declaration) string {
	if len(decls) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, d := range decls {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(d.Property)
		sb.WriteString(": ")
		sb.WriteString(d.Value)
	}
	return sb.String()
}

// setDeclaration replaces the last occurrence of prop in place, or appends
// when the property is not present yet.
func setDeclaration(decls []declaration, prop, value string) []declaration {
	prop = strings.ToLower(prop)
	for i := len(decls) - 1; i >= 0; i-- {
		if decls[i].Property == prop {
			decls[i].Value = value
			return decls
		}
	}
	return append(decls, declaration{Property: prop, Value: value})
}

func getDeclaration(decls []declaration, prop string) (string, bool) {
	prop = strings.ToLower(prop)
	for i := len(decls) - 1; i >= 0; i-- {
		if decls[i].Property == prop {
			return decls[i].Value, true
		}
	}
	return "", false
}

// parseLength understands bare numbers and px lengths. Percentages and other
// units have no fixed pixel value without a layout pass, so they are rejected.
func parseLength(value string) (float64, bool) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" || strings.HasSuffix(value, "%") {
		return 0, false
	}
	value = strings.TrimSuffix(value, "px")
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// -- Node Attribute Helpers --

func attrValue(node *html.Node, key string) (string, bool) {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func setAttrValue(node *html.Node, key, value string) {
	for i := range node.Attr {
		if node.Attr[i].Key == key {
			node.Attr[i].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: value})
}

func attrLength(node *html.Node, key string) (float64, bool) {
	raw, ok := attrValue(node, key)
	if !ok {
		return 0, false
	}
	return parseLength(raw)
}

// styleLength reads a single property out of the node's style attribute.
func styleLength(node *html.Node, prop string) (float64, bool) {
	raw, ok := attrValue(node, "style")
	if !ok {
		return 0, false
	}
	value, ok := getDeclaration(parseInlineStyle(raw), prop)
	if !ok {
		return 0, false
	}
	return parseLength(value)
}

func firstElementChild(node *html.Node) *html.Node {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			return child
		}
	}
	return nil
}

func elementChildren(node *html.Node) []*html.Node {
	var children []*html.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			children = append(children, child)
		}
	}
	return children
}
