package crud

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/pkg/query"
)

// MemoryModel is an in-process Model. It evaluates the subset of the query
// language produced by query.Features: equality, $eq, $ne, $gt, $gte, $lt,
// $lte, $in, $nin, $exists, $and, $or and dotted paths.
type MemoryModel struct {
	mu     sync.RWMutex
	name   string
	schema *Schema
	docs   []Document
	links  map[string]*MemoryModel
}

// NewMemoryModel creates an empty collection. A nil schema stores documents as they are.
func NewMemoryModel(name string, schema *Schema) *MemoryModel {
	return &MemoryModel{
		name:   name,
		schema: schema,
		links:  make(map[string]*MemoryModel),
	}
}

// Name returns the collection name.
func (m *MemoryModel) Name() string {
	return m.name
}

// Link registers other as the collection named by Populate.From.
func (m *MemoryModel) Link(other *MemoryModel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[other.name] = other
}

// Insert stores documents without running the schema. Intended for fixtures.
func (m *MemoryModel) Insert(docs ...Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		d = copyDocument(d)
		if _, ok := d[KeyID]; !ok {
			d[KeyID] = bson.NewObjectID()
		}
		m.docs = append(m.docs, d)
	}
}

func (m *MemoryModel) Create(ctx context.Context, data Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := m.schema.New(data)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUnique(doc, nil); err != nil {
		return nil, err
	}
	m.docs = append(m.docs, doc)
	return copyDocument(doc), nil
}

func (m *MemoryModel) FindByID(ctx context.Context, id string, populate ...Populate) (Document, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return m.FindOne(ctx, bson.M{KeyID: oid}, populate...)
}

func (m *MemoryModel) FindOne(ctx context.Context, filter bson.M, populate ...Populate) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter, err := m.castFilter(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	var found Document
	for _, d := range m.docs {
		if matches(d, filter) {
			found = copyDocument(d)
			break
		}
	}
	m.mu.RUnlock()

	if found == nil {
		return nil, ErrNotFound
	}
	if err := m.populate(ctx, found, populate); err != nil {
		return nil, err
	}
	return found, nil
}

func (m *MemoryModel) Find(ctx context.Context, q *query.Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q == nil {
		q = query.NewQuery(nil)
	}
	filter, err := m.castFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	var out []Document
	for _, d := range m.docs {
		if matches(d, filter) {
			out = append(out, copyDocument(d))
		}
	}
	m.mu.RUnlock()

	sortDocuments(out, q.Sort)

	if q.Skip > 0 {
		if q.Skip >= int64(len(out)) {
			out = nil
		} else {
			out = out[q.Skip:]
		}
	}
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}

	result := make([]Document, 0, len(out))
	for _, d := range out {
		result = append(result, project(d, q.Projection))
	}
	return result, nil
}

func (m *MemoryModel) FindByIDAndUpdate(ctx context.Context, id string, data Document, opts UpdateOptions) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(oid)
	if idx < 0 {
		return nil, ErrNotFound
	}
	set, err := m.schema.Update(m.docs[idx], data, opts.RunValidators)
	if err != nil {
		return nil, err
	}

	updated := copyDocument(m.docs[idx])
	for k, v := range set {
		updated[k] = v
	}
	if err := m.checkUnique(updated, oid); err != nil {
		return nil, err
	}
	m.docs[idx] = updated
	return copyDocument(updated), nil
}

func (m *MemoryModel) FindByIDAndDelete(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(oid)
	if idx < 0 {
		return nil, ErrNotFound
	}
	doc := m.docs[idx]
	m.docs = append(m.docs[:idx], m.docs[idx+1:]...)
	return doc, nil
}

func (m *MemoryModel) castFilter(filter bson.M) (bson.M, error) {
	return m.schema.CastFilter(filter)
}

func (m *MemoryModel) indexOf(id bson.ObjectID) int {
	for i, d := range m.docs {
		if d[KeyID] == id {
			return i
		}
	}
	return -1
}

// checkUnique must be called with the write lock held.
func (m *MemoryModel) checkUnique(doc Document, self any) error {
	for _, field := range m.schema.Unique() {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		for _, d := range m.docs {
			if self != nil && d[KeyID] == self {
				continue
			}
			if equal(d[field], v) {
				return &DuplicateError{Field: field, Value: v}
			}
		}
	}
	return nil
}

func (m *MemoryModel) populate(ctx context.Context, doc Document, pops []Populate) error {
	for _, p := range pops {
		m.mu.RLock()
		from, ok := m.links[p.From]
		m.mu.RUnlock()
		if !ok {
			return fmt.Errorf("crud: populate %q: collection %q is not linked to %q", p.Path, p.From, m.name)
		}

		local := lookup(doc, p.LocalField)
		var values bson.A
		if list, ok := asList(local); ok {
			values = list
		} else if local != nil {
			values = bson.A{local}
		}

		var projection bson.D
		for _, f := range p.Select {
			projection = append(projection, bson.E{Key: f, Value: 1})
		}
		related, err := from.Find(ctx, &query.Query{
			Filter:     bson.M{p.ForeignField: bson.M{"$in": values}},
			Projection: projection,
		})
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		if p.Single {
			if len(related) > 0 {
				doc[p.Path] = related[0]
			} else {
				doc[p.Path] = nil
			}
			continue
		}
		list := make(bson.A, 0, len(related))
		for _, r := range related {
			list = append(list, r)
		}
		doc[p.Path] = list
	}
	return nil
}

// lookup resolves a dotted path.
func lookup(doc map[string]any, path string) any {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		d, ok := asDocument(cur)
		if !ok {
			return nil
		}
		cur, ok = d[part]
		if !ok {
			return nil
		}
	}
	return cur
}

func matches(doc Document, filter bson.M) bool {
	for key, cond := range filter {
		switch key {
		case "$and":
			for _, sub := range conditionList(cond) {
				if !matches(doc, sub) {
					return false
				}
			}
			continue
		case "$or":
			ok := false
			for _, sub := range conditionList(cond) {
				if matches(doc, sub) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
			continue
		}

		value, exists := lookupExists(doc, key)
		if ops, ok := asDocument(cond); ok && isOperatorDocument(ops) {
			if !matchOperators(value, exists, ops) {
				return false
			}
			continue
		}
		if !matchEqual(value, cond) {
			return false
		}
	}
	return true
}

func conditionList(v any) []bson.M {
	list, _ := asList(v)
	out := make([]bson.M, 0, len(list))
	for _, item := range list {
		if d, ok := asDocument(item); ok {
			out = append(out, bson.M(d))
		}
	}
	return out
}

func lookupExists(doc Document, path string) (any, bool) {
	if !strings.Contains(path, ".") {
		v, ok := doc[path]
		return v, ok
	}
	v := lookup(doc, path)
	return v, v != nil
}

func matchOperators(value any, exists bool, ops map[string]any) bool {
	for op, operand := range ops {
		switch op {
		case "$eq":
			if !matchEqual(value, operand) {
				return false
			}
		case "$ne":
			if matchEqual(value, operand) {
				return false
			}
		case "$gt", "$gte", "$lt", "$lte":
			if !matchCompare(value, op, operand) {
				return false
			}
		case "$in":
			list, _ := asList(operand)
			found := false
			for _, item := range list {
				if matchEqual(value, item) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$nin":
			list, _ := asList(operand)
			for _, item := range list {
				if matchEqual(value, item) {
					return false
				}
			}
		case "$exists":
			want, _ := operand.(bool)
			if exists != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// matchEqual follows MongoDB equality: an array field matches when any element equals the value.
func matchEqual(value, want any) bool {
	if equal(value, want) {
		return true
	}
	if list, ok := asList(value); ok {
		if _, wantList := asList(want); !wantList {
			for _, item := range list {
				if equal(item, want) {
					return true
				}
			}
		}
	}
	return false
}

func matchCompare(value any, op string, operand any) bool {
	if list, ok := asList(value); ok {
		for _, item := range list {
			if matchCompare(item, op, operand) {
				return true
			}
		}
		return false
	}
	c, ok := compare(value, operand)
	if !ok {
		return false
	}
	switch op {
	case "$gt":
		return c > 0
	case "$gte":
		return c >= 0
	case "$lt":
		return c < 0
	default:
		return c <= 0
	}
}

func sortDocuments(docs []Document, order bson.D) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, e := range order {
			dir := 1
			if n, ok := toFloat(e.Value); ok && n < 0 {
				dir = -1
			}
			c := compareForSort(lookup(docs[i], e.Key), lookup(docs[j], e.Key))
			if c != 0 {
				return c*dir < 0
			}
		}
		return false
	})
}

// project applies an inclusion or exclusion projection to top-level fields.
func project(doc Document, projection bson.D) Document {
	if len(projection) == 0 {
		return doc
	}

	// {_id: 1} alone is an inclusion; {_id: 0} next to inclusions is allowed.
	included, excluded := false, false
	for _, e := range projection {
		n, ok := toFloat(e.Value)
		switch {
		case !ok || n != 0:
			included = true
		case e.Key != KeyID:
			excluded = true
		}
	}
	include := included && !excluded

	if !include {
		for _, e := range projection {
			if n, ok := toFloat(e.Value); ok && n == 0 {
				delete(doc, e.Key)
			}
		}
		return doc
	}

	out := make(Document, len(projection)+1)
	if v, ok := doc[KeyID]; ok {
		out[KeyID] = v
	}
	for _, e := range projection {
		if n, ok := toFloat(e.Value); ok && n == 0 {
			delete(out, e.Key)
			continue
		}
		if v, ok := doc[e.Key]; ok {
			out[e.Key] = v
		}
	}
	return out
}
