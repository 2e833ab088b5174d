package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const DateLayout = "2006-01-02"

/*
Date is a calendar date with no time component. It is stored and
serialized as YYYY-MM-DD.
*/
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

/*
ParseDate accepts a plain date, or an RFC 3339 timestamp of which only the
date portion is kept.
*/
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)

	if value == "" {
		return Date{}, nil
	}

	if len(value) > len(DateLayout) {
		value = value[:len(DateLayout)]
	}

	t, err := time.Parse(DateLayout, value)

	if err != nil {
		return Date{}, fmt.Errorf("error parsing date '%s': %w", value, err)
	}

	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.Format(DateLayout)
}

func (d Date) YearString() string {
	if d.IsZero() {
		return ""
	}

	return fmt.Sprintf("%04d", d.Year())
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var (
		err   error
		value string
	)

	if string(b) == "null" {
		*d = Date{}
		return nil
	}

	if err = json.Unmarshal(b, &value); err != nil {
		return fmt.Errorf("error reading date: %w", err)
	}

	*d, err = ParseDate(value)
	return err
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	var err error

	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
	case string:
		*d, err = ParseDate(v)
	case []byte:
		*d, err = ParseDate(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}

	return err
}
