package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"order-etl/internal/models"
)

// Schema names, matching the file stem of each *.schema.json.
const (
	SchemaSlots    = "slots"
	SchemaAliases  = "aliases"
	SchemaFewShots = "few_shots"
	SchemaEvalset  = "evalset"
	SchemaManifest = "artifact_manifest"
	SchemaMenu     = "menu"
)

const schemaSuffix = ".schema.json"

//go:embed schemas/*.schema.json
var embeddedSchemas embed.FS

var ErrUnknownSchema = errors.New("UNKNOWN_SCHEMA")

// Store holds every artifact schema compiled against one shared resource set,
// so a schema may $ref another by its declared $id.
type Store struct {
	ids      map[string]string
	compiled map[string]*jsonschema.Schema
}

// NewStore loads *.schema.json from dir, or the embedded defaults when dir is empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		sub, err := fs.Sub(embeddedSchemas, "schemas")
		if err != nil {
			return nil, err
		}
		return newStore(sub)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return newStore(os.DirFS(dir))
}

func newStore(fsys fs.FS) (*Store, error) {
	files, err := fs.Glob(fsys, "*"+schemaSuffix)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found", schemaSuffix)
	}
	sort.Strings(files)

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true

	ids := make(map[string]string, len(files))
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var head struct {
			ID string `json:"$id"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		// schemas without an $id cannot be referenced and are skipped
		if head.ID == "" {
			continue
		}
		if err := c.AddResource(head.ID, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
		ids[strings.TrimSuffix(path.Base(name), schemaSuffix)] = head.ID
	}

	s := &Store{ids: ids, compiled: make(map[string]*jsonschema.Schema, len(ids))}
	for name, id := range ids {
		sch, err := c.Compile(id)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		s.compiled[name] = sch
	}
	return s, nil
}

// Has reports whether a schema with the given name was loaded.
func (s *Store) Has(name string) bool {
	_, ok := s.compiled[name]
	return ok
}

// Validate checks a decoded JSON document against the named schema and
// returns every leaf violation. A nil slice means the document is valid.
func (s *Store) Validate(name string, doc interface{}) ([]models.SchemaError, error) {
	sch, ok := s.compiled[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	err := sch.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}
	var out []models.SchemaError
	flatten(ve, &out)
	return out, nil
}

// ValidateValue converts any Go value to its JSON form first.
func (s *Store) ValidateValue(name string, v interface{}) ([]models.SchemaError, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return s.Validate(name, doc)
}

// DecodeDocument decodes JSON keeping numbers as json.Number, which is the
// instance form the compiled schemas expect.
func DecodeDocument(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON document")
	}
	return v, nil
}

func flatten(ve *jsonschema.ValidationError, out *[]models.SchemaError) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, models.SchemaError{Location: loc, Message: ve.Message})
		return
	}
	for _, c := range ve.Causes {
		flatten(c, out)
	}
}
