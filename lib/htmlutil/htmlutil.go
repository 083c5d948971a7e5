package htmlutil

import (
	"bytes"

	"golang.org/x/net/html"
)

// GetText concatenates every text node under node, in document order.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// elements that terminate a visual line inside a table cell
var lineBreakers = map[string]bool{
	"br":  true,
	"p":   true,
	"div": true,
	"tr":  true,
	"li":  true,
}

// GetTextLines extracts text like GetText but renders <br> and block
// elements as newlines, so multi-line cells (the installation domicile
// block) keep their line structure.
func GetTextLines(node *html.Node) string {
	var buffer bytes.Buffer
	getTextLinesRecursive(node, &buffer)
	return buffer.String()
}

func getTextLinesRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && lineBreakers[node.Data] {
		buffer.WriteString("\n")
	}
	child := node.FirstChild
	for child != nil {
		getTextLinesRecursive(child, buffer)
		child = child.NextSibling
	}
}
