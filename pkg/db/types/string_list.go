package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a list of string identifiers as a JSON array column.
// JSON keeps the column readable on both postgres and sqlite.
type StringList []string

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return l.parseFromJSON([]byte(v))
	case []byte:
		return l.parseFromJSON(v)
	default:
		return fmt.Errorf("StringList: unsupported Scan type %T", src)
	}
}

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("StringList: marshal: %w", err)
	}
	return string(raw), nil
}

// Contains reports whether the list holds the given value.
func (l StringList) Contains(value string) bool {
	for _, item := range l {
		if item == value {
			return true
		}
	}
	return false
}

func (l *StringList) parseFromJSON(raw []byte) error {
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: parse %q: %w", raw, err)
	}
	if out == nil {
		out = []string{}
	}
	*l = StringList(out)
	return nil
}
