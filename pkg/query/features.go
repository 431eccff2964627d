package query

import (
	"errors"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Reserved parameters are pipeline directives, never filters.
const (
	ParamPage   = "page"
	ParamSort   = "sort"
	ParamLimit  = "limit"
	ParamFields = "fields"
)

var reserved = map[string]struct{}{
	ParamPage:   {},
	ParamSort:   {},
	ParamLimit:  {},
	ParamFields: {},
}

// comparison operators rewritten to the engine syntax
var comparison = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// field[op]
var bracketKey = regexp.MustCompile(`^([^\[\]]+)\[([^\[\]]+)\]$`)

// Features translates request parameters into a Query.
// Stages mutate the wrapped query and return the receiver:
//
//	features := query.New(query.NewQuery(nil), r.URL.Query()).
//		Filter().
//		Sort().
//		LimitFields().
//		Paginate()
//	if err := features.Err(); err != nil {
//		return handler.Error(err)
//	}
//	docs, err := model.Find(ctx, features.Query())
type Features struct {
	query  *Query
	params url.Values
	opts   options
	errs   []error
}

// New wraps q and the raw request parameters. Params are never modified.
func New(q *Query, params url.Values, opts ...Option) *Features {
	if q == nil {
		q = NewQuery(nil)
	}
	if q.Filter == nil {
		q.Filter = bson.M{}
	}
	return &Features{
		query:  q,
		params: params,
		opts:   newOptions(opts),
	}
}

// Apply runs all four stages in order.
func (f *Features) Apply() *Features {
	return f.Filter().Sort().LimitFields().Paginate()
}

// Query returns the composed query.
func (f *Features) Query() *Query {
	return f.query
}

// Err reports allow-list and projection violations collected by the stages.
func (f *Features) Err() error {
	return errors.Join(f.errs...)
}

// Filter turns every non-reserved parameter into a constraint.
// Keys already present in the base filter are never overridden.
func (f *Features) Filter() *Features {
	keys := make([]string, 0, len(f.params))
	for k := range f.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	base := make(map[string]struct{}, len(f.query.Filter))
	for k := range f.query.Filter {
		base[k] = struct{}{}
	}

	for _, key := range keys {
		values := f.params[key]
		if len(values) == 0 {
			continue
		}
		if _, ok := reserved[key]; ok {
			continue
		}

		field, op := key, ""
		if m := bracketKey.FindStringSubmatch(key); m != nil {
			field, op = m[1], m[2]
		}
		if isOperator(field) || isOperator(op) {
			continue
		}
		if _, ok := base[field]; ok {
			continue
		}
		if f.opts.filterable != nil {
			if _, ok := f.opts.filterable[field]; !ok {
				f.errs = append(f.errs, &FieldError{Field: field, Err: ErrFieldNotFilterable})
				continue
			}
		}

		if op == "" {
			f.query.Filter[field] = f.value(field, values)
			continue
		}

		if mapped, ok := comparison[op]; ok {
			op = mapped
		}
		sub, ok := f.query.Filter[field].(bson.M)
		if !ok {
			sub = bson.M{}
			// price=10&price[lte]=20 keeps the equality next to the comparison.
			if eq, set := f.query.Filter[field]; set {
				sub["$eq"] = eq
			}
			f.query.Filter[field] = sub
		}
		sub[op] = values[len(values)-1]
	}

	return f
}

// value picks the last occurrence, or $in for registered multi-value fields.
func (f *Features) value(field string, values []string) any {
	if _, ok := f.opts.multiValue[field]; ok && len(values) > 1 {
		in := make(bson.A, 0, len(values))
		for _, v := range values {
			in = append(in, v)
		}
		return bson.M{"$in": in}
	}
	return values[len(values)-1]
}

// Sort applies the requested order or the default one.
func (f *Features) Sort() *Features {
	var spec string
	if vs := f.params[ParamSort]; len(vs) > 0 {
		spec = vs[len(vs)-1]
	}

	order := f.parseSort(spec, true)
	if len(order) == 0 {
		order = f.parseSort(f.opts.defaultSort, false)
	}
	f.query.Sort = order
	return f
}

func (f *Features) parseSort(spec string, check bool) bson.D {
	var order bson.D
	for _, item := range splitList(spec) {
		dir := 1
		if strings.HasPrefix(item, "-") {
			dir = -1
			item = item[1:]
		}
		if item == "" || isOperator(item) {
			continue
		}
		if check && f.opts.sortable != nil {
			if _, ok := f.opts.sortable[item]; !ok {
				f.errs = append(f.errs, &FieldError{Field: item, Err: ErrFieldNotSortable})
				continue
			}
		}
		order = append(order, bson.E{Key: item, Value: dir})
	}
	return order
}

// LimitFields restricts returned fields or hides the version key.
func (f *Features) LimitFields() *Features {
	var spec string
	if vs := f.params[ParamFields]; len(vs) > 0 {
		spec = vs[len(vs)-1]
	}

	var (
		projection bson.D
		include    bool
		exclude    bool
	)
	for _, item := range splitList(spec) {
		v := 1
		if strings.HasPrefix(item, "-") {
			v = 0
			item = item[1:]
		}
		if item == "" || isOperator(item) {
			continue
		}
		if item != "_id" {
			include = include || v == 1
			exclude = exclude || v == 0
		}
		projection = append(projection, bson.E{Key: item, Value: v})
	}

	if include && exclude {
		f.errs = append(f.errs, &FieldError{Field: spec, Err: ErrMixedProjection})
		projection = nil
	}
	if len(projection) == 0 {
		projection = bson.D{{Key: VersionKey, Value: 0}}
	}
	f.query.Projection = projection
	return f
}

// Paginate computes skip and limit.
// Non-numeric values fall back to the defaults, page < 1 becomes 1 and
// limit < 1 becomes the default limit.
func (f *Features) Paginate() *Features {
	page := parsePositive(f.params[ParamPage], DefaultPage)
	limit := parsePositive(f.params[ParamLimit], f.opts.defaultLimit)
	if f.opts.maxLimit > 0 && limit > f.opts.maxLimit {
		limit = f.opts.maxLimit
	}

	f.query.Skip = (page - 1) * limit
	f.query.Limit = limit
	return f
}

func parsePositive(values []string, fallback int64) int64 {
	if len(values) == 0 {
		return fallback
	}
	n, err := strconv.ParseInt(strings.TrimSpace(values[len(values)-1]), 10, 64)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func isOperator(s string) bool {
	return strings.HasPrefix(s, "$")
}
