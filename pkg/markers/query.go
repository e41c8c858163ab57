package markers

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// Filter holds the read parameters exactly as received from the wire.
// Empty fields do not filter.
type Filter struct {
	Region string `json:"region,omitempty"`
	Type   string `json:"type,omitempty"`
	Limit  string `json:"limit,omitempty"`
}

// ParseFilter extracts region, type and limit from query parameters.
func ParseFilter(v url.Values) Filter {
	return Filter{
		Region: v.Get("region"),
		Type:   v.Get("type"),
		Limit:  v.Get("limit"),
	}
}

// Values encodes f back into query parameters, skipping empty fields.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Region != "" {
		v.Set("region", f.Region)
	}
	if f.Type != "" {
		v.Set("type", f.Type)
	}
	if f.Limit != "" {
		v.Set("limit", f.Limit)
	}
	return v
}

// MaxResults returns the effective limit and whether one applies.
// The value is read like a leading integer ("3", " 3", "3abc" all mean 3);
// anything without leading digits or not positive is ignored.
func (f Filter) MaxResults() (int, bool) {
	n, ok := leadingInt(f.Limit)
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

// Result is the filtered marker list with statistics over exactly that list.
type Result struct {
	Markers    []Marker   `json:"markers"`
	Statistics Statistics `json:"statistics"`
}

// Query filters all by region substring (case-insensitive) and exact type,
// then truncates to the limit. Filters compose as AND and original order is
// kept. all is not modified; the returned slice is new but the connection
// slices of its markers are shared with all.
func Query(all []Marker, f Filter) Result {
	region := strings.ToLower(f.Region)

	matched := make([]Marker, 0, len(all))
	for i := range all {
		m := &all[i]
		if region != "" && !strings.Contains(strings.ToLower(m.Region), region) {
			continue
		}
		if f.Type != "" && string(m.Type) != f.Type {
			continue
		}
		matched = append(matched, *m)
	}

	if n, ok := f.MaxResults(); ok && n < len(matched) {
		matched = matched[:n]
	}

	return Result{
		Markers:    matched,
		Statistics: ComputeStatistics(matched),
	}
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// only range errors reach here
		if s[0] == '-' {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return n, true
}
