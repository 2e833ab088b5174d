package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

/*
Tags is an ordered list of short labels. Duplicates are kept as given.
In SQL it is stored as a JSON array.
*/
type Tags []string

func (t Tags) Contains(tag string) bool {
	for _, existing := range t {
		if existing == tag {
			return true
		}
	}

	return false
}

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}

	b, err := json.Marshal([]string(t))

	if err != nil {
		return nil, fmt.Errorf("error encoding tags: %w", err)
	}

	return string(b), nil
}

func (t *Tags) Scan(src any) error {
	var b []byte

	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}

	result := []string{}

	if len(b) > 0 {
		if err := json.Unmarshal(b, &result); err != nil {
			return fmt.Errorf("error decoding tags: %w", err)
		}
	}

	*t = result
	return nil
}
