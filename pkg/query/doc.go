// Package query turns list request parameters into a MongoDB find request.
//
// Features runs four stages over a Query in a fixed order:
//
//   - Filter drops the reserved parameters (page, sort, limit, fields),
//     rewrites field[gte|gt|lte|lt] into $-operators and forwards every other
//     parameter as a constraint. Values stay strings; the model casts them.
//   - Sort parses "-price,name" or applies the default "-createdAt".
//   - LimitFields parses "name,price" (or "-description") into a projection,
//     hiding "__v" when no list is given.
//   - Paginate computes skip and limit from page (default 1) and
//     limit (default 100).
//
// Parameters or operators starting with "$" are always dropped. Resources can
// declare allow-lists with WithFilterable and WithSortable; violations are
// collected and reported by Err.
package query
