package seo

// Attr is a single element attribute; order is preserved on render.
type Attr struct {
	Key   string
	Value string
}

// Element describes a node to insert. Body is written as the element's raw
// text content (script and noscript bodies).
type Element struct {
	Tag   string
	ID    string
	Attrs []Attr
	Body  string
}

// Document is the mutable page the injector works on. Implementations exist
// for parsed HTML (HTMLDocument) and for tests.
type Document interface {
	SetTitle(title string) error
	// UpsertMeta finds the meta element whose attr (name or property)
	// equals key, creating it in head when missing, and sets its content.
	UpsertMeta(attr, key, content string) error
	HasElement(id string) bool
	PrependHead(el Element) error
	AppendHead(el Element) error
	PrependBody(el Element) error
}
