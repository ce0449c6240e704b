package vfs

// Kind discriminates the two Content variants.
type Kind int

const (
	KindText Kind = iota
	KindBinary
)

// String returns "text" or "binary".
func (k Kind) String() string {
	if k == KindBinary {
		return "binary"
	}
	return "text"
}

// Content is a file entry: opaque text or an opaque byte sequence.
type Content struct {
	kind Kind
	text string
	data []byte
}

// Text builds a text entry.
func Text(s string) Content {
	return Content{kind: KindText, text: s}
}

// Binary builds a binary entry. The slice is copied.
func Binary(data []byte) Content {
	return Content{kind: KindBinary, data: append([]byte{}, data...)}
}

// Kind returns which variant the entry is.
func (c Content) Kind() Kind { return c.kind }

// IsBinary reports whether the entry is the binary variant.
func (c Content) IsBinary() bool { return c.kind == KindBinary }

// Text returns the text of a text entry, or "" for a binary one.
func (c Content) Text() string { return c.text }

// Bytes returns the raw bytes of the entry regardless of variant.
func (c Content) Bytes() []byte {
	if c.kind == KindBinary {
		return append([]byte{}, c.data...)
	}
	return []byte(c.text)
}
