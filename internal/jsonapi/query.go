package jsonapi

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Invocation keys with a fixed query-string meaning on read routes. Every
// other key is sent as a filter.
const (
	KeyInclude    = "include"
	KeyPageSize   = "pageSize"
	KeyPageAfter  = "pageAfter"
	KeyPageBefore = "pageBefore"
	KeySort       = "sort"
	KeyFilter     = "filter"
)

// QueryParams is the query string of an outbound read request.
type QueryParams struct {
	Include    []string
	PageSize   string
	PageAfter  string
	PageBefore string
	Sort       string
	Filter     map[string]string
}

// Values renders the parameters in JSON:API query syntax.
func (q QueryParams) Values() url.Values {
	v := url.Values{}
	if len(q.Include) > 0 {
		v.Set("include", strings.Join(q.Include, ","))
	}
	if q.PageSize != "" {
		v.Set("page[size]", q.PageSize)
	}
	if q.PageAfter != "" {
		v.Set("page[after]", q.PageAfter)
	}
	if q.PageBefore != "" {
		v.Set("page[before]", q.PageBefore)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	for k, val := range q.Filter {
		v.Set("filter["+k+"]", val)
	}
	return v
}

// IsZero reports whether no parameter is set.
func (q QueryParams) IsZero() bool {
	return len(q.Include) == 0 && q.PageSize == "" && q.PageAfter == "" &&
		q.PageBefore == "" && q.Sort == "" && len(q.Filter) == 0
}

// ParseQueryParams builds QueryParams from the non-identifier keys of a read
// invocation. Nested objects are rejected everywhere except under "filter".
func ParseQueryParams(tool string, params map[string]any) (QueryParams, error) {
	var q QueryParams

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := params[key]
		if val == nil {
			continue
		}
		switch key {
		case KeyInclude:
			include, err := stringList(val)
			if err != nil {
				return q, malformed(tool, key, err.Error())
			}
			q.Include = include
		case KeySort:
			sorts, err := stringList(val)
			if err != nil {
				return q, malformed(tool, key, err.Error())
			}
			q.Sort = strings.Join(sorts, ",")
		case KeyPageSize, KeyPageAfter, KeyPageBefore:
			s, err := scalarString(val)
			if err != nil {
				return q, malformed(tool, key, err.Error())
			}
			switch key {
			case KeyPageSize:
				q.PageSize = s
			case KeyPageAfter:
				q.PageAfter = s
			default:
				q.PageBefore = s
			}
		case KeyFilter:
			nested, ok := val.(map[string]any)
			if !ok {
				return q, malformed(tool, key, "must be an object")
			}
			for fk, fv := range nested {
				if fv == nil {
					continue
				}
				s, err := filterString(fv)
				if err != nil {
					return q, malformed(tool, key+"."+fk, err.Error())
				}
				q.setFilter(fk, s)
			}
		default:
			s, err := filterString(val)
			if err != nil {
				return q, malformed(tool, key, err.Error())
			}
			q.setFilter(key, s)
		}
	}
	return q, nil
}

func (q *QueryParams) setFilter(key, val string) {
	if q.Filter == nil {
		q.Filter = make(map[string]string)
	}
	q.Filter[key] = val
}

func stringList(val any) ([]string, error) {
	switch v := val.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		return strings.Split(v, ","), nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("must be a string or a list of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or a list of strings")
	}
}

func scalarString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("must be a scalar value, got %T", val)
	}
}

// filterString accepts scalars and lists of scalars; lists are comma-joined.
func filterString(val any) (string, error) {
	switch v := val.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, err := scalarString(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	case []string:
		return strings.Join(v, ","), nil
	default:
		return scalarString(val)
	}
}
