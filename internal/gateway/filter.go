package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// NoConstraint is the path segment the backend reads as "dimension absent".
const NoConstraint = "null"

// DoctorFilter is the canonical doctor search tuple. A nil field is an absent
// dimension; a non-nil empty string is a present, empty value and is never
// collapsed into absence.
type DoctorFilter struct {
	Name      *string
	Time      *string
	Specialty *string
}

// String returns a pointer to v, for building filters.
func String(v string) *string { return &v }

// IsEmpty reports whether every dimension is absent.
func (f DoctorFilter) IsEmpty() bool {
	return f.Name == nil && f.Time == nil && f.Specialty == nil
}

func (f DoctorFilter) String() string {
	show := func(p *string) string {
		if p == nil {
			return "<absent>"
		}
		return fmt.Sprintf("%q", *p)
	}
	return fmt.Sprintf("name=%s time=%s specialty=%s", show(f.Name), show(f.Time), show(f.Specialty))
}

// doctorFilterPath builds the request path for f. An empty filter is the
// unfiltered listing.
func doctorFilterPath(f DoctorFilter, enc FilterEncoding) (string, error) {
	if f.IsEmpty() {
		return "/doctor", nil
	}
	if enc == EncodeQuery {
		q := url.Values{}
		if f.Name != nil {
			q.Set("name", *f.Name)
		}
		if f.Time != nil {
			q.Set("time", *f.Time)
		}
		if f.Specialty != nil {
			q.Set("specialty", *f.Specialty)
		}
		return "/doctor/filter?" + q.Encode(), nil
	}

	parts := make([]string, 0, 3)
	for _, dim := range []struct {
		name  string
		value *string
	}{{"name", f.Name}, {"time", f.Time}, {"specialty", f.Specialty}} {
		p, err := sentinelSegment(dim.name, dim.value)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	return "/doctor/filter/" + strings.Join(parts, "/"), nil
}

// sentinelSegment encodes one optional path segment. Present values that the
// backend could not tell apart from absence are rejected.
func sentinelSegment(dim string, value *string) (string, error) {
	if value == nil {
		return NoConstraint, nil
	}
	if *value == "" || strings.EqualFold(*value, NoConstraint) {
		return "", fmt.Errorf("%w: %s=%q", ErrAmbiguousFilter, dim, *value)
	}
	return seg(*value), nil
}
