// Package schema turns raw /predict request bodies into validated
// features.BuildingFeatures records.
//
// Validation runs in three passes and reports every violation it finds:
//
//   - the body is decoded as a JSON object;
//   - the embedded JSON Schema document checks the type of each property,
//     while missing and (optionally) unknown properties are diffed against
//     the known field list;
//   - value constraints (ranges, non-empty strings) are checked with
//     go-playground/validator struct tags.
//
// A field is reported at most once; the first pass that flags it wins.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"energyd/internal/features"
)

//go:embed payload.schema.json
var payloadSchema []byte

const schemaURL = "payload.schema.json"

// Options configures a Validator.
type Options struct {
	// RejectUnknown reports properties outside the schema as violations.
	// When false they are ignored.
	RejectUnknown bool
}

// Validator validates request payloads. It is safe for concurrent use.
type Validator struct {
	doc     []byte
	schema  *jsonschema.Schema
	tags    *validator.Validate
	strict  bool
	ordinal map[string]int
}

// New compiles the payload schema.
func New(opts Options) (*Validator, error) {
	doc := payloadSchema
	if opts.RejectUnknown {
		var m map[string]any
		if err := json.Unmarshal(payloadSchema, &m); err != nil {
			return nil, fmt.Errorf("parse schema: %w", err)
		}
		m["additionalProperties"] = false
		b, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		doc = b
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	tags := validator.New()
	tags.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	ordinal := make(map[string]int)
	for i, f := range features.Fields() {
		ordinal[f] = i
	}
	return &Validator{doc: doc, schema: sch, tags: tags, strict: opts.RejectUnknown, ordinal: ordinal}, nil
}

// MustNew is New for package-level defaults; it panics on error.
func MustNew(opts Options) *Validator {
	v, err := New(opts)
	if err != nil {
		panic(err)
	}
	return v
}

// Document returns the JSON Schema the validator enforces.
func (v *Validator) Document() []byte { return append([]byte(nil), v.doc...) }

// Decode reads the whole body from r and validates it.
func (v *Validator) Decode(r io.Reader) (features.BuildingFeatures, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return features.BuildingFeatures{}, err
	}
	return v.Validate(b)
}

// Validate checks raw and returns the typed record, or a *ValidationError.
func (v *Validator) Validate(raw []byte) (features.BuildingFeatures, error) {
	doc, err := decodeJSON(raw)
	if err != nil {
		return features.BuildingFeatures{}, &ValidationError{Fields: []FieldError{{Code: CodeInvalidJSON, Message: err.Error()}}}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return features.BuildingFeatures{}, &ValidationError{Fields: []FieldError{{Code: CodeWrongType, Message: "request body must be a JSON object"}}}
	}

	c := collector{seen: make(map[string]bool)}
	v.checkShape(obj, &c)

	p := buildPayload(obj, &c)
	v.checkValues(p, &c)

	if len(c.errs) > 0 {
		v.sort(c.errs)
		return features.BuildingFeatures{}, &ValidationError{Fields: c.errs}
	}
	return p.record(), nil
}

type collector struct {
	errs []FieldError
	seen map[string]bool
}

func (c *collector) add(field, code, msg string) {
	if c.seen[field] {
		return
	}
	c.seen[field] = true
	c.errs = append(c.errs, FieldError{Field: field, Code: code, Message: msg})
}

func (v *Validator) checkShape(obj map[string]any, c *collector) {
	if err := v.schema.Validate(obj); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			for _, leaf := range leaves(ve) {
				if !strings.HasSuffix(leaf.KeywordLocation, "/type") {
					continue
				}
				field := strings.TrimPrefix(leaf.InstanceLocation, "/")
				if field == "" || strings.Contains(field, "/") {
					continue
				}
				c.add(field, CodeWrongType, leaf.Message)
			}
		} else {
			c.add("", CodeWrongType, err.Error())
		}
	}
	for _, f := range features.RequiredFields {
		if _, ok := obj[f]; !ok {
			c.add(f, CodeMissing, "field is required")
		}
	}
	if v.strict {
		for k := range obj {
			if _, known := v.ordinal[k]; !known {
				c.add(k, CodeUnknown, "field is not allowed")
			}
		}
	}
}

func (v *Validator) checkValues(p payload, c *collector) {
	err := v.tags.Struct(p)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		c.add("", CodeWrongType, err.Error())
		return
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			c.add(fe.Field(), CodeMissing, "field is required")
		default:
			c.add(fe.Field(), CodeOutOfRange, constraintMessage(fe))
		}
	}
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		if fe.Param() == "1" {
			return "must not be empty"
		}
		return "must be at least " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " constraint"
	}
}

// sort orders errors by schema field order; unknown fields go last, by name.
func (v *Validator) sort(errs []FieldError) {
	rank := func(f string) int {
		if f == "" {
			return -1
		}
		if i, ok := v.ordinal[f]; ok {
			return i
		}
		return len(v.ordinal)
	}
	sort.SliceStable(errs, func(i, j int) bool {
		ri, rj := rank(errs[i].Field), rank(errs[j].Field)
		if ri != rj {
			return ri < rj
		}
		return errs[i].Field < errs[j].Field
	})
}

func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func decodeJSON(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON body: trailing data after object")
	}
	return doc, nil
}
