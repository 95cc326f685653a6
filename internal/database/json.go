package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JsonColumn wraps a value which is persisted as serialized JSON
// in a single column.
type JsonColumn[T any] struct {
	val T
}

func NewJsonColumn[T any](val T) JsonColumn[T] { return JsonColumn[T]{val: val} }

func (j *JsonColumn[T]) Get() T { return j.val }

func (j JsonColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.val)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (j *JsonColumn[T]) Scan(src any) error {
	var source []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JsonColumn", src)
	}

	return json.Unmarshal(source, &j.val)
}
