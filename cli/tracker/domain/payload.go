package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrUnexpectedShape тело ответа не является ни массивом, ни объектом
var ErrUnexpectedShape = errors.New("неожиданный формат ответа API телеметрии")

// PayloadShape форма, в которой API телеметрии прислало записи
type PayloadShape int

const (
	ShapeArray PayloadShape = iota + 1
	ShapeWrapped
	ShapeSingle
)

func (s PayloadShape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeWrapped:
		return "wrapped"
	case ShapeSingle:
		return "single"
	default:
		return "unknown"
	}
}

type Payload struct {
	Shape   PayloadShape
	Entries []interface{}
}

// DecodePayload приводит ответ к последовательности записей:
// массив, объект с массивом в поле data или одиночный объект.
func DecodePayload(body []byte) (Payload, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return Payload{}, fmt.Errorf("некорректный JSON в ответе API телеметрии: %w", err)
	}
	var trailing json.RawMessage
	if err := decoder.Decode(&trailing); err != io.EOF {
		return Payload{}, fmt.Errorf("некорректный JSON в ответе API телеметрии: лишние данные после значения")
	}

	switch v := value.(type) {
	case []interface{}:
		return Payload{Shape: ShapeArray, Entries: v}, nil
	case map[string]interface{}:
		if data, ok := v["data"].([]interface{}); ok {
			return Payload{Shape: ShapeWrapped, Entries: data}, nil
		}
		return Payload{Shape: ShapeSingle, Entries: []interface{}{v}}, nil
	default:
		return Payload{}, fmt.Errorf("%w: %T", ErrUnexpectedShape, value)
	}
}
