// Package query translates a request query string into a MongoDB filter,
// sort order, projection and pagination window. It mirrors the four-stage
// shape of the API surface: filtering with gte/gt/lte/lt suffixes, comma
// separated sorting, field limiting and page/limit pagination.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// controlKeys never participate in filtering.
var controlKeys = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

var comparisonOps = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// Features accumulates query state across the builder stages. Each stage
// returns a new value; the original is never mutated, so a caller can fork
// a half-built query without surprises.
type Features struct {
	params     url.Values
	filter     bson.M
	sort       bson.D
	projection bson.M
	page       int64
	limit      int64
	paginated  bool
}

// New creates a Features builder from raw query parameters. Stages must be
// invoked explicitly; New alone matches everything.
func New(params url.Values) Features {
	return Features{params: params}
}

// Filter strips control keys and turns the remaining parameters into match
// conditions. Keys shaped like price[gte] become range comparisons; plain
// keys become equality constraints. Values pass through as strings exactly
// as the transport layer delivered them.
func (f Features) Filter() Features {
	filter := bson.M{}
	for key, values := range f.params {
		if controlKeys[key] || len(values) == 0 {
			continue
		}

		field, op, ok := splitComparison(key)
		if !ok {
			filter[key] = values[0]
			continue
		}

		cond, exists := filter[field].(bson.M)
		if !exists {
			cond = bson.M{}
		}
		cond[op] = values[0]
		filter[field] = cond
	}

	f.filter = filter
	return f
}

// Sort orders results by the comma separated sort parameter; a leading '-'
// means descending. Without a sort parameter, newest first.
func (f Features) Sort() Features {
	sortParam := f.params.Get("sort")
	if sortParam == "" {
		f.sort = bson.D{{Key: "createdAt", Value: -1}}
		return f
	}

	var sort bson.D
	for _, spec := range strings.Split(sortParam, ",") {
		if spec == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(spec, "-") {
			dir = -1
			spec = spec[1:]
		}
		sort = append(sort, bson.E{Key: spec, Value: dir})
	}

	f.sort = sort
	return f
}

// LimitFields restricts the projection to the comma separated fields
// parameter, or excludes the internal version field when absent.
func (f Features) LimitFields() Features {
	fieldsParam := f.params.Get("fields")
	if fieldsParam == "" {
		f.projection = bson.M{"__v": 0}
		return f
	}

	projection := bson.M{}
	for _, field := range strings.Split(fieldsParam, ",") {
		if field == "" {
			continue
		}
		projection[field] = 1
	}

	f.projection = projection
	return f
}

// Paginate computes the pagination window: skip = (page-1)*limit, with page
// defaulting to 1 and limit to 100 when absent or not a positive integer.
// No upper bound is enforced on limit.
func (f Features) Paginate() Features {
	f.page = positiveInt(f.params.Get("page"), DefaultPage)
	f.limit = positiveInt(f.params.Get("limit"), DefaultLimit)
	f.paginated = true
	return f
}

// BuildFilter returns the accumulated match conditions merged with an
// optional scope filter. Scope entries win over request parameters, so a
// nested route cannot be widened from the query string.
func (f Features) BuildFilter(scope bson.M) bson.M {
	filter := bson.M{}
	for k, v := range f.filter {
		filter[k] = v
	}
	for k, v := range scope {
		filter[k] = v
	}
	return filter
}

// BuildFindOptions returns find options for the accumulated sort,
// projection and pagination stages. Stages that were never invoked leave
// their option unset.
func (f Features) BuildFindOptions() *options.FindOptions {
	opts := options.Find()
	if f.sort != nil {
		opts.SetSort(f.sort)
	}
	if f.projection != nil {
		opts.SetProjection(f.projection)
	}
	if f.paginated {
		opts.SetSkip(f.Skip())
		opts.SetLimit(f.limit)
	}
	return opts
}

// Skip returns the number of records to skip for the current page.
func (f Features) Skip() int64 {
	if !f.paginated {
		return 0
	}
	return (f.page - 1) * f.limit
}

// Page returns the resolved page number.
func (f Features) Page() int64 { return f.page }

// Limit returns the resolved page size.
func (f Features) Limit() int64 { return f.limit }

func splitComparison(key string) (field, op string, ok bool) {
	open := strings.Index(key, "[")
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	mongoOp, known := comparisonOps[key[open+1:len(key)-1]]
	if !known {
		return "", "", false
	}
	return key[:open], mongoOp, true
}

func positiveInt(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
