// Package payload turns request bodies into report payloads. It validates
// the JSON document against an embedded schema, decodes it and rejects
// repeated ids, so that the engine only ever sees structurally sound input.
package payload

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/okian/accredit/internal/domain/model"
)

const (
	schemaURL       = "schema://payload.schema.json"
	defaultMaxBytes = 4 << 20
)

//go:embed payload.schema.json
var schemaDoc []byte

// Parser validates and decodes payloads. It is safe for concurrent use.
type Parser struct {
	schema   *jsonschema.Schema
	maxBytes int64
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxBytes caps the size of a document read by Decode.
func WithMaxBytes(n int64) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// NewParser compiles the embedded schema.
func NewParser(opts ...Option) (*Parser, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	p := &Parser{schema: sch, maxBytes: defaultMaxBytes}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MaxBytes returns the configured size cap.
func (p *Parser) MaxBytes() int64 {
	return p.maxBytes
}

// Decode reads at most MaxBytes from r and parses the document.
func (p *Parser) Decode(r io.Reader) (*model.Payload, error) {
	raw, err := io.ReadAll(io.LimitReader(r, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrInvalidPayload, err)
	}
	if int64(len(raw)) > p.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, p.maxBytes)
	}
	return p.Parse(raw)
}

// Parse validates raw against the schema and decodes it.
func (p *Parser) Parse(raw []byte) (*model.Payload, error) {
	if err := p.Validate(raw); err != nil {
		return nil, err
	}
	var out model.Payload
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if err := checkUnique(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate checks raw against the schema without decoding it.
func (p *Parser) Validate(raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: malformed json: %w", ErrInvalidPayload, err)
	}
	if err := p.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

// checkUnique rejects ids repeated within one catalog tier, the question
// ledger, the roster or the component list.
func checkUnique(p *model.Payload) error {
	for _, tier := range model.Tiers {
		ids := make([]string, 0, len(p.Catalog.Definitions(tier)))
		for _, d := range p.Catalog.Definitions(tier) {
			ids = append(ids, d.ID)
		}
		if err := unique(string(tier), ids); err != nil {
			return err
		}
	}
	ids := make([]string, 0, len(p.Questions))
	for _, q := range p.Questions {
		ids = append(ids, q.ID)
	}
	if err := unique("questions", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, s := range p.Students {
		ids = append(ids, s.ID)
	}
	if err := unique("students", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, c := range p.Components {
		ids = append(ids, c.ID)
	}
	return unique("components", ids)
}

func unique(section string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %q in %s", ErrInvalidPayload, id, section)
		}
		seen[id] = struct{}{}
	}
	return nil
}
