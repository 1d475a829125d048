// Package render serializes response payloads as JSON or as nested-tag XML,
// chosen from the client's Accept header.
package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Root tags for XML documents.
const (
	RootProduct  = "product"
	RootMessage  = "message"
	RootError    = "error"
	RootResponse = "response"
)

const defaultItemTag = "item"

const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeXML  = "application/xml; charset=utf-8"
)

// Kind tags the payload variant.
type Kind uint8

const (
	KindSuccess Kind = iota
	KindError
	KindMessage
)

// Payload is what a handler hands to the formatter.
type Payload struct {
	kind    Kind
	root    string
	itemTag string
	value   any
	text    string
}

// Success wraps a value rendered under the given XML root tag.
func Success(root string, value any) Payload {
	if root == "" {
		root = RootResponse
	}
	return Payload{kind: KindSuccess, root: root, value: value}
}

// Error wraps an error message: {"error": message}.
func Error(message string) Payload {
	return Payload{kind: KindError, root: RootError, text: message}
}

// Message wraps an informational message: {"message": message}.
func Message(message string) Payload {
	return Payload{kind: KindMessage, root: RootMessage, text: message}
}

// WithItemTag names the XML element used for array entries.
func (p Payload) WithItemTag(tag string) Payload {
	p.itemTag = tag
	return p
}

// Kind returns the payload variant.
func (p Payload) Kind() Kind { return p.kind }

// Format is a negotiated output encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatXML
)

// Negotiate picks the output format from an Accept header value. Media ranges
// are scanned in order and the first subtype naming xml or json wins.
func Negotiate(accept string) Format {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, _ := strings.Cut(part, ";")
		_, subtype, ok := strings.Cut(strings.TrimSpace(mediaType), "/")
		if !ok {
			continue
		}
		subtype = strings.ToLower(subtype)
		switch {
		case strings.Contains(subtype, "xml"):
			return FormatXML
		case strings.Contains(subtype, "json"):
			return FormatJSON
		}
	}
	return FormatJSON
}

// Render encodes p for the given Accept header and returns the body with its
// content type.
func Render(p Payload, accept string) ([]byte, string, error) {
	if Negotiate(accept) == FormatXML {
		body, err := renderXML(p)
		if err != nil {
			return nil, "", err
		}
		return body, ContentTypeXML, nil
	}
	body, err := renderJSON(p)
	if err != nil {
		return nil, "", err
	}
	return body, ContentTypeJSON, nil
}

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func renderJSON(p Payload) ([]byte, error) {
	var v any
	switch p.kind {
	case KindError:
		v = errorBody{Error: p.text}
	case KindMessage:
		v = messageBody{Message: p.text}
	default:
		v = p.value
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return body, nil
}

func renderXML(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)

	switch p.kind {
	case KindError, KindMessage:
		if err := writeText(enc, p.root, p.text); err != nil {
			return nil, err
		}
	default:
		// Go through the JSON form so struct tags and omitempty decide which
		// fields exist, and so key order matches the JSON output.
		raw, err := json.Marshal(p.value)
		if err != nil {
			return nil, fmt.Errorf("render xml: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		w := &xmlWriter{enc: enc, dec: dec, itemTag: p.itemTag}
		if w.itemTag == "" {
			w.itemTag = defaultItemTag
		}
		if err := w.root(p.root); err != nil {
			return nil, fmt.Errorf("render xml: %w", err)
		}
	}

	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("render xml: %w", err)
	}
	return buf.Bytes(), nil
}

func writeText(enc *xml.Encoder, name, text string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// xmlWriter streams JSON tokens into nested XML elements.
type xmlWriter struct {
	enc     *xml.Encoder
	dec     *json.Decoder
	itemTag string
}

// root always emits the root element, even for a null or scalar value.
func (w *xmlWriter) root(name string) error {
	tok, err := w.dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		start := xml.StartElement{Name: xml.Name{Local: name}}
		if err := w.enc.EncodeToken(start); err != nil {
			return err
		}
		return w.enc.EncodeToken(start.End())
	}
	return w.value(name, tok)
}

func (w *xmlWriter) value(name string, tok json.Token) error {
	switch v := tok.(type) {
	case nil:
		return nil
	case json.Delim:
		switch v {
		case '{':
			return w.object(name)
		case '[':
			return w.array(name)
		default:
			return fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return writeText(w.enc, name, v)
	case json.Number:
		return writeText(w.enc, name, v.String())
	case bool:
		return writeText(w.enc, name, strconv.FormatBool(v))
	default:
		return fmt.Errorf("unexpected token %T", tok)
	}
}

func (w *xmlWriter) object(name string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}
	for w.dec.More() {
		keyTok, err := w.dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		tok, err := w.dec.Token()
		if err != nil {
			return err
		}
		if err := w.value(key, tok); err != nil {
			return err
		}
	}
	if err := w.closeDelim('}'); err != nil {
		return err
	}
	return w.enc.EncodeToken(start.End())
}

func (w *xmlWriter) array(name string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}
	for w.dec.More() {
		tok, err := w.dec.Token()
		if err != nil {
			return err
		}
		if err := w.value(w.itemTag, tok); err != nil {
			return err
		}
	}
	if err := w.closeDelim(']'); err != nil {
		return err
	}
	return w.enc.EncodeToken(start.End())
}

func (w *xmlWriter) closeDelim(want json.Delim) error {
	tok, err := w.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("missing %q", want)
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
