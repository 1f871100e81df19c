package validator

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Document is the request data a rule set is evaluated against.
// It is read-only; evaluation never mutates the underlying body.
type Document struct {
	body   gjson.Result
	params map[string]string
	query  url.Values
}

// NewDocument builds a Document from a raw JSON body, route params and query values.
// An empty body is treated as an empty object.
func NewDocument(body []byte, params map[string]string, query url.Values) (Document, error) {
	doc := Document{params: params, query: query}
	if len(strings.TrimSpace(string(body))) == 0 {
		return doc, nil
	}
	if !gjson.ValidBytes(body) {
		return Document{}, ErrInvalidJSON
	}
	doc.body = gjson.ParseBytes(body)
	return doc, nil
}

// MustDocument is like NewDocument but panics on malformed JSON. Intended for tests.
func MustDocument(body string) Document {
	doc, err := NewDocument([]byte(body), nil, nil)
	if err != nil {
		panic(err)
	}
	return doc
}

// Get resolves a concrete path. Route params are consulted first so a body
// field can never shadow the URL, then the body, then the query string.
func (d Document) Get(path string) Value {
	if v, ok := d.params[path]; ok {
		return stringValue(path, v)
	}
	if r := d.body.Get(path); r.Exists() {
		return Value{Result: r, path: path}
	}
	if d.query != nil && d.query.Has(path) {
		return stringValue(path, d.query.Get(path))
	}
	return Value{path: path}
}

// expand resolves "*" segments into concrete array indexes, in index order.
// A wildcard over a missing or non-array value yields no paths.
func (d Document) expand(path string) []string {
	before, after, found := strings.Cut(path, "*")
	if !found {
		return []string{path}
	}

	prefix := strings.TrimSuffix(before, ".")
	rest := strings.TrimPrefix(after, ".")

	arr := d.body
	if prefix != "" {
		arr = d.body.Get(prefix)
	}
	if !arr.IsArray() {
		return nil
	}

	n := len(arr.Array())
	paths := make([]string, 0, n)
	for i := range n {
		p := strconv.Itoa(i)
		if prefix != "" {
			p = prefix + "." + p
		}
		if rest != "" {
			p += "." + rest
		}
		paths = append(paths, d.expand(p)...)
	}
	return paths
}

// Value is the value found at one concrete path.
type Value struct {
	gjson.Result
	path string
	text bool // taken from the URL, where every value is a string
}

func stringValue(path, s string) Value {
	return Value{
		Result: gjson.Result{Type: gjson.String, Str: s, Raw: strconv.Quote(s)},
		path:   path,
		text:   true,
	}
}

// Path returns the concrete dotted path the value was resolved from.
func (v Value) Path() string {
	return v.path
}

// Present reports whether the value exists and is neither null nor the empty string.
func (v Value) Present() bool {
	if !v.Exists() || v.Type == gjson.Null {
		return false
	}
	if v.Type == gjson.String && v.Str == "" {
		return false
	}
	return true
}

// number returns the numeric value of a JSON number. Numeric strings are
// accepted only for route params and query values. The result is always finite.
func (v Value) number() (float64, bool) {
	switch {
	case v.Type == gjson.Number:
		return v.Num, !math.IsInf(v.Num, 0) && !math.IsNaN(v.Num)
	case v.Type == gjson.String && v.text:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		return f, err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
	default:
		return 0, false
	}
}

// displayPath renders numeric segments as indexes: products.0.count -> products[0].count.
func displayPath(path string) string {
	segments := strings.Split(path, ".")
	var b strings.Builder
	for i, s := range segments {
		if _, err := strconv.Atoi(s); err == nil && i > 0 {
			b.WriteString("[" + s + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s)
	}
	return b.String()
}
