package freshlearn

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadKind identifies which shape a response body was read as.
type PayloadKind int

const (
	// PayloadNone means no usable body: empty, unreadable or malformed JSON.
	PayloadNone PayloadKind = iota
	// PayloadJSON holds a well-formed JSON document of any shape.
	PayloadJSON
	// PayloadText holds a non-JSON body as raw text.
	PayloadText
)

// String returns the string representation of a PayloadKind
func (k PayloadKind) String() string {
	switch k {
	case PayloadJSON:
		return "json"
	case PayloadText:
		return "text"
	default:
		return "none"
	}
}

// Payload is a response body as received, before it is narrowed to an
// operation's result type. The zero value is an empty payload.
type Payload struct {
	kind PayloadKind
	raw  json.RawMessage
	text string
}

// JSONPayload wraps raw JSON. Input that is not valid JSON yields an empty payload.
func JSONPayload(raw []byte) Payload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return Payload{}
	}
	return Payload{kind: PayloadJSON, raw: json.RawMessage(bytes.Clone(trimmed))}
}

// TextPayload wraps a plain-text body.
func TextPayload(text string) Payload {
	return Payload{kind: PayloadText, text: text}
}

// Kind reports the shape of the payload.
func (p Payload) Kind() PayloadKind {
	return p.kind
}

// Raw returns the JSON document, or nil for text and empty payloads.
func (p Payload) Raw() json.RawMessage {
	return p.raw
}

// Text returns the body of a text payload.
func (p Payload) Text() string {
	return p.text
}

// IsNull reports whether the payload carries no data at all.
func (p Payload) IsNull() bool {
	return p.kind == PayloadNone || (p.kind == PayloadJSON && string(p.raw) == "null")
}

// IsObject reports whether the payload is a JSON object.
func (p Payload) IsObject() bool {
	return p.kind == PayloadJSON && len(p.raw) > 0 && p.raw[0] == '{'
}

// IsArray reports whether the payload is a JSON array.
func (p Payload) IsArray() bool {
	return p.kind == PayloadJSON && len(p.raw) > 0 && p.raw[0] == '['
}

// Message returns the "message" member of a JSON object payload.
// A string member is returned verbatim, any other non-null value as its JSON text.
func (p Payload) Message() (string, bool) {
	if !p.IsObject() {
		return "", false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(p.raw, &fields); err != nil {
		return "", false
	}

	msg, ok := fields["message"]
	if !ok || string(msg) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s, true
	}
	return string(msg), true
}

// Decode stores the payload in the value pointed to by v.
// JSON payloads are unmarshaled; text payloads can only be decoded into a
// *string or *any. An empty payload leaves v untouched.
func (p Payload) Decode(v any) error {
	switch p.kind {
	case PayloadJSON:
		return json.Unmarshal(p.raw, v)
	case PayloadText:
		switch dst := v.(type) {
		case *string:
			*dst = p.text
		case *any:
			*dst = p.text
		default:
			return fmt.Errorf("cannot decode text payload into %T", v)
		}
	}
	return nil
}

// String returns the body as it was received.
func (p Payload) String() string {
	switch p.kind {
	case PayloadJSON:
		return string(p.raw)
	case PayloadText:
		return p.text
	default:
		return ""
	}
}

// MarshalJSON renders JSON payloads verbatim, text as a JSON string and
// empty payloads as null.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case PayloadJSON:
		return p.raw, nil
	case PayloadText:
		return json.Marshal(p.text)
	default:
		return []byte("null"), nil
	}
}

// narrow converts a payload into an operation's declared result type.
// A payload that does not fit T yields T's zero value.
func narrow[T any](p Payload) T {
	var out T
	if dst, ok := any(&out).(*Payload); ok {
		*dst = p
		return out
	}
	if err := p.Decode(&out); err != nil {
		var zero T
		return zero
	}
	return out
}
