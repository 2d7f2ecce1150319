package handler

import (
	"encoding/json"
	"reflect"
	"time"
)

var requestDateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// requestDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date (UTC
// midnight). Anything else is reported as a type error on the field.
type requestDate struct {
	time.Time
}

func (d *requestDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &json.UnmarshalTypeError{Value: "non-string", Type: reflect.TypeOf(time.Time{})}
	}
	for _, layout := range requestDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return &json.UnmarshalTypeError{Value: "string " + s, Type: reflect.TypeOf(time.Time{})}
}

func (d *requestDate) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
