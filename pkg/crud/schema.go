package crud

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Defaulter is implemented by schema types that fill default values before
// the payload is applied.
type Defaulter interface {
	SetDefaults()
}

// BeforeSaver is implemented by schema types that derive fields before a
// document is created, for example a slug from a name.
type BeforeSaver interface {
	BeforeSave() error
}

// Schema describes the documents of one collection using a Go struct.
// Field names come from bson tags. The schema casts request values to the
// field types, applies defaults and hooks, and validates with `validate` tags.
// A nil *Schema accepts documents as they are.
type Schema struct {
	typ      reflect.Type
	fields   map[string]schemaField
	unique   []string
	validate *validator.Validate
}

type schemaField struct {
	name  string
	index int
	typ   reflect.Type
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithUnique declares fields with a unique constraint.
func WithUnique(fields ...string) SchemaOption {
	return func(s *Schema) {
		s.unique = append(s.unique, fields...)
	}
}

// NewSchema builds a schema from the struct type T.
//
//	var tourSchema = crud.NewSchema[Tour](crud.WithUnique("name"))
func NewSchema[T any](opts ...SchemaOption) *Schema {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("crud: schema type must be a struct, got %s", typ))
	}

	s := &Schema{
		typ:      typ,
		fields:   structFields(typ),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Has reports whether the schema declares the top-level field.
func (s *Schema) Has(field string) bool {
	if s == nil {
		return false
	}
	_, ok := s.fields[field]
	return ok
}

// Unique returns the fields with a unique constraint.
func (s *Schema) Unique() []string {
	if s == nil {
		return nil
	}
	return s.unique
}

// New prepares a document for insertion: unknown fields are dropped, values
// are cast, defaults and the BeforeSave hook are applied and the result is
// validated. The returned document carries a new _id and version key.
func (s *Schema) New(data Document) (Document, error) {
	if s == nil {
		doc := copyDocument(data)
		delete(doc, KeyVersion)
		doc[KeyID] = bson.NewObjectID()
		doc[KeyVersion] = int32(0)
		return doc, nil
	}

	cast, err := s.castDocument(data)
	if err != nil {
		return nil, err
	}

	ptr := reflect.New(s.typ)
	if d, ok := ptr.Interface().(Defaulter); ok {
		d.SetDefaults()
	}
	if err := decodeInto(cast, ptr.Interface()); err != nil {
		return nil, err
	}
	s.touchCreatedAt(ptr.Elem())
	if h, ok := ptr.Interface().(BeforeSaver); ok {
		if err := h.BeforeSave(); err != nil {
			return nil, err
		}
	}
	if err := s.validateStruct(ptr.Interface(), nil); err != nil {
		return nil, err
	}

	doc, err := encode(ptr.Interface())
	if err != nil {
		return nil, err
	}
	doc[KeyID] = bson.NewObjectID()
	doc[KeyVersion] = int32(0)
	return doc, nil
}

// Update casts a partial update and returns the fields to set.
// With runValidators the patch is merged into current and the updated
// fields are validated.
func (s *Schema) Update(current, patch Document, runValidators bool) (Document, error) {
	if s == nil {
		set := copyDocument(patch)
		delete(set, KeyID)
		delete(set, KeyVersion)
		return set, nil
	}

	set, err := s.castDocument(patch)
	if err != nil {
		return nil, err
	}
	if !runValidators || len(set) == 0 {
		return set, nil
	}

	merged := copyDocument(current)
	for k, v := range set {
		merged[k] = v
	}
	delete(merged, KeyID)

	ptr := reflect.New(s.typ)
	if err := decodeInto(merged, ptr.Interface()); err != nil {
		return nil, err
	}
	if err := s.validateStruct(ptr.Interface(), set); err != nil {
		return nil, err
	}
	return set, nil
}

// CastFilter converts filter values to the types of the fields they target.
// Operator documents ($gte, $in, ...) are cast element-wise; unknown fields
// and unknown operators are left untouched. Hex strings under _id become
// ObjectIDs, also for a nil schema.
func (s *Schema) CastFilter(filter bson.M) (bson.M, error) {
	if filter == nil {
		return bson.M{}, nil
	}

	out := make(bson.M, len(filter))
	for key, value := range filter {
		switch key {
		case "$and", "$or", "$nor":
			list, ok := value.(bson.A)
			if !ok {
				out[key] = value
				continue
			}
			cast := make(bson.A, 0, len(list))
			for _, item := range list {
				sub, ok := asDocument(item)
				if !ok {
					cast = append(cast, item)
					continue
				}
				c, err := s.CastFilter(sub)
				if err != nil {
					return nil, err
				}
				cast = append(cast, c)
			}
			out[key] = cast
			continue
		}

		if key == KeyID {
			c, err := castCondition(key, objectIDType, value)
			if err != nil {
				return nil, err
			}
			out[key] = c
			continue
		}

		typ, ok := s.pathType(key)
		if !ok {
			out[key] = value
			continue
		}
		c, err := castCondition(key, typ, value)
		if err != nil {
			return nil, err
		}
		out[key] = c
	}
	return out, nil
}

// castDocument keeps only schema fields and casts their values.
func (s *Schema) castDocument(data Document) (Document, error) {
	out := make(Document, len(data))
	for key, value := range data {
		if key == KeyID || key == KeyVersion {
			continue
		}
		f, ok := s.fields[key]
		if !ok {
			continue
		}
		cast, err := castValue(key, f.typ, value)
		if err != nil {
			return nil, err
		}
		if isSlice(f.typ) && cast != nil {
			if _, ok := cast.(bson.A); !ok {
				cast = bson.A{cast}
			}
		}
		out[key] = cast
	}
	return out, nil
}

func (s *Schema) touchCreatedAt(v reflect.Value) {
	f, ok := s.fields[KeyCreatedAt]
	if !ok || f.typ != timeType {
		return
	}
	fv := v.Field(f.index)
	if fv.Interface().(time.Time).IsZero() {
		fv.Set(reflect.ValueOf(time.Now().UTC().Truncate(time.Millisecond)))
	}
}

// pathType resolves a dotted path to its Go type.
func (s *Schema) pathType(path string) (reflect.Type, bool) {
	if s == nil {
		return nil, false
	}
	fields := s.fields
	var typ reflect.Type
	for i, part := range strings.Split(path, ".") {
		if i > 0 {
			t := derefElem(typ)
			if t.Kind() != reflect.Struct || t == timeType {
				return nil, false
			}
			fields = structFields(t)
		}
		f, ok := fields[part]
		if !ok {
			return nil, false
		}
		typ = f.typ
	}
	return typ, typ != nil
}

func structFields(t reflect.Type) map[string]schemaField {
	fields := make(map[string]schemaField, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strings.ToLower(sf.Name)
		if tag, ok := sf.Tag.Lookup("bson"); ok {
			if tag == "-" {
				continue
			}
			if n, _, _ := strings.Cut(tag, ","); n != "" {
				name = n
			}
		}
		fields[name] = schemaField{name: name, index: i, typ: sf.Type}
	}
	return fields
}

func decodeInto(doc Document, v any) error {
	b, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("crud: encode document: %w", err)
	}
	if err := bson.Unmarshal(b, v); err != nil {
		return fmt.Errorf("crud: decode document: %w", err)
	}
	return nil
}

func encode(v any) (Document, error) {
	b, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("crud: encode document: %w", err)
	}
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(b)))
	dec.DefaultDocumentM()

	var doc bson.M
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("crud: decode document: %w", err)
	}
	return Document(doc), nil
}

func copyDocument(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
