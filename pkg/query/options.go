package query

// Defaults applied by the pipeline stages.
const (
	DefaultSort  = "-createdAt"
	DefaultPage  = 1
	DefaultLimit = 100
)

// VersionKey is excluded from results when no field list is requested.
const VersionKey = "__v"

type options struct {
	filterable   map[string]struct{}
	sortable     map[string]struct{}
	multiValue   map[string]struct{}
	defaultSort  string
	defaultLimit int64
	maxLimit     int64
}

// Option configures Features.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		defaultSort:  DefaultSort,
		defaultLimit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func set(fields []string) map[string]struct{} {
	m := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		m[f] = struct{}{}
	}
	return m
}

// WithFilterable restricts filters to the given fields.
// Without it, every non-reserved parameter is forwarded as a filter.
func WithFilterable(fields ...string) Option {
	return func(o *options) {
		o.filterable = set(fields)
	}
}

// WithSortable restricts sort keys to the given fields.
func WithSortable(fields ...string) Option {
	return func(o *options) {
		o.sortable = set(fields)
	}
}

// WithMultiValue lets repeated parameters of the given fields become an $in
// filter. Other repeated parameters keep their last value.
func WithMultiValue(fields ...string) Option {
	return func(o *options) {
		o.multiValue = set(fields)
	}
}

// WithDefaultSort sets the sort applied when no sort parameter is given.
func WithDefaultSort(spec string) Option {
	return func(o *options) {
		if spec != "" {
			o.defaultSort = spec
		}
	}
}

// WithDefaultLimit sets the page size used when no limit parameter is given.
func WithDefaultLimit(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.defaultLimit = n
		}
	}
}

// WithMaxLimit caps the page size.
func WithMaxLimit(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLimit = n
		}
	}
}
