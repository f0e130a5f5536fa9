package seo

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ Document = (*HTMLDocument)(nil)

// HTMLDocument is a Document over a parsed HTML page.
type HTMLDocument struct {
	doc *goquery.Document
}

func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

func (d *HTMLDocument) SetTitle(title string) error {
	head, err := d.section("head")
	if err != nil {
		return err
	}
	sel := head.Find("title").First()
	if sel.Length() == 0 {
		head.AppendNodes(newNode(Element{Tag: "title"}))
		sel = head.Find("title").First()
	}
	sel.SetText(title)
	return nil
}

func (d *HTMLDocument) UpsertMeta(attr, key, content string) error {
	if attr != "name" && attr != "property" {
		return fmt.Errorf("unsupported meta attribute %q", attr)
	}
	head, err := d.section("head")
	if err != nil {
		return err
	}
	selector := fmt.Sprintf("meta[%s=%q]", attr, key)
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		head.AppendNodes(newNode(Element{Tag: "meta", Attrs: []Attr{{Key: attr, Value: key}}}))
		sel = head.Find(selector).First()
	}
	sel.SetAttr("content", content)
	return nil
}

func (d *HTMLDocument) HasElement(id string) bool {
	return d.doc.Find(fmt.Sprintf("[id=%q]", id)).Length() > 0
}

func (d *HTMLDocument) PrependHead(el Element) error {
	head, err := d.section("head")
	if err != nil {
		return err
	}
	head.PrependNodes(newNode(el))
	return nil
}

func (d *HTMLDocument) AppendHead(el Element) error {
	head, err := d.section("head")
	if err != nil {
		return err
	}
	head.AppendNodes(newNode(el))
	return nil
}

func (d *HTMLDocument) PrependBody(el Element) error {
	body, err := d.section("body")
	if err != nil {
		return err
	}
	body.PrependNodes(newNode(el))
	return nil
}

func (d *HTMLDocument) Render(w io.Writer) error {
	if len(d.doc.Nodes) == 0 {
		return errors.New("empty document")
	}
	return html.Render(w, d.doc.Nodes[0])
}

func (d *HTMLDocument) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *HTMLDocument) section(tag string) (*goquery.Selection, error) {
	sel := d.doc.Find(tag).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("document has no <%s>", tag)
	}
	return sel, nil
}

func newNode(el Element) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     el.Tag,
		DataAtom: atom.Lookup([]byte(el.Tag)),
	}
	if el.ID != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: el.ID})
	}
	for _, a := range el.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
	}
	if el.Body != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: el.Body})
	}
	return n
}

// Render parses page, applies s and returns the resulting HTML. Item
// failures are returned alongside the rendered page so callers can log them
// and still serve it.
func Render(page []byte, s Settings) ([]byte, error) {
	doc, err := ParseHTML(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}
	applyErr := Apply(doc, s)
	out, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render html: %w", err)
	}
	return out, applyErr
}
