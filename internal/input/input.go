// Package input reads scan sources. It handles xz and gzip compressed
// files transparently and can pull the visible text out of an XML
// document so references in markup can be scanned like plain text.
package input

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/ulikunitz/xz"
)

// ReadFile reads the named file, decompressing .xz and .gz content.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	switch {
	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
	case strings.HasSuffix(path, ".gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gzr.Close()
		reader = gzr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return data, nil
}

// ExtractXMLText returns the text content of an XML document with
// element boundaries turned into newlines, so that text from adjacent
// elements is not run together.
func ExtractXMLText(data []byte) (string, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing XML: %w", err)
	}

	var sb strings.Builder
	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return sb.String(), nil
}

// IsXML reports whether path names an XML document, ignoring a
// trailing compression suffix.
func IsXML(path string) bool {
	p := strings.TrimSuffix(strings.TrimSuffix(path, ".xz"), ".gz")
	return strings.HasSuffix(p, ".xml") || strings.HasSuffix(p, ".xhtml")
}
