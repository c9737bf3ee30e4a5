// Package query translates a request's query string into a MongoDB filter,
// projection, sort and page window, and computes the next/prev page cursors
// for list responses.
package query

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// operators is the allow-list of comparison operators accepted in
// `field[op]=value` keys. Anything else is treated as a plain equality key.
var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// reserved keys are consumed by the translator itself and never reach the
// filter.
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Options is the translated form of a list request.
type Options struct {
	Filter     bson.M
	Projection bson.D
	Sort       bson.D
	Page       int
	Limit      int
}

// Parse builds Options from the raw query-string values. Unknown keys become
// equality filters; `field[op]` keys with a recognized operator become range
// or set filters. Non-numeric page/limit fall back to the defaults.
func Parse(values map[string]string) Options {
	opts := Options{
		Filter: bson.M{},
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}

	for key, value := range values {
		if reserved[key] {
			continue
		}
		field, op, ok := splitOperator(key)
		if !ok {
			opts.Filter[key] = coerceEquality(value)
			continue
		}
		if op == "$in" {
			opts.Filter[field] = mergeFilter(opts.Filter[field], op, coerceList(value))
			continue
		}
		opts.Filter[field] = mergeFilter(opts.Filter[field], op, coerce(value))
	}

	if sel := values["select"]; sel != "" {
		for _, f := range strings.Split(sel, ",") {
			if f = strings.TrimSpace(f); f != "" {
				opts.Projection = append(opts.Projection, bson.E{Key: f, Value: 1})
			}
		}
	}

	opts.Sort = parseSort(values["sort"])

	if page, err := strconv.Atoi(values["page"]); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(values["limit"]); err == nil && limit > 0 {
		opts.Limit = limit
	}

	return opts
}

// Skip is the number of documents before the requested page.
func (o Options) Skip() int64 {
	return int64(o.Page-1) * int64(o.Limit)
}

// FindOptions expresses the projection, sort and page window in driver terms.
func (o Options) FindOptions() *options.FindOptions {
	fo := options.Find().
		SetSort(o.Sort).
		SetSkip(o.Skip()).
		SetLimit(int64(o.Limit))
	if o.Projection != nil {
		fo = fo.SetProjection(o.Projection)
	}
	return fo
}

// splitOperator recognizes `field[op]` keys. The operator must be on the
// allow-list; bracket keys with unknown operators are left untouched so a
// stray token inside a value can never be rewritten.
func splitOperator(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	mongoOp, known := operators[key[open+1:len(key)-1]]
	if !known {
		return "", "", false
	}
	return key[:open], mongoOp, true
}

// mergeFilter folds multiple operators on one field, e.g.
// averageCost[gte]=1000&averageCost[lte]=10000, into a single sub-document.
func mergeFilter(existing any, op string, value any) bson.M {
	m, ok := existing.(bson.M)
	if !ok {
		m = bson.M{}
	}
	m[op] = value
	return m
}

func parseSort(sort string) bson.D {
	if sort == "" {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	var out bson.D
	for _, f := range strings.Split(sort, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(f, "-") {
			dir = -1
			f = f[1:]
		}
		out = append(out, bson.E{Key: f, Value: dir})
	}
	if len(out) == 0 {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return out
}

// coerce interprets a comparison-operator value, where numeric intent is
// explicit: numbers as doubles, booleans as booleans, everything else as a
// string.
func coerce(value string) any {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

// coerceEquality interprets a plain equality value, where the stored type is
// unknown. Numeric-looking values match either the number or the original
// string, so weeks=8 finds the string "8" and a zipcode keeps its leading
// zero.
func coerceEquality(value string) any {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return bson.M{"$in": bson.A{n, value}}
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func coerceList(value string) []any {
	parts := strings.Split(value, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		out = append(out, coerce(strings.TrimSpace(p)))
	}
	return out
}
