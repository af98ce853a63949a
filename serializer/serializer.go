package serializer

import (
	"encoding/json"
	"io"
)

type (
	// JSONSerializer is the pluggable JSON implementation used by the
	// frame codec. The default is the standard library; see the gojson
	// and sonic subpackages for faster alternatives.
	JSONSerializer interface {
		JSONMarshalUnmarshaler
		JSONEncodeDecoder
	}

	JSONMarshalUnmarshaler interface {
		Marshal(v any) ([]byte, error)
		Unmarshal(data []byte, v any) error
	}

	JSONEncodeDecoder interface {
		NewEncoder(w io.Writer) JSONEncoder
		NewDecoder(r io.Reader) JSONDecoder
	}

	JSONEncoder interface {
		Encode(v any) error
	}

	JSONDecoder interface {
		Decode(v any) error
	}
)

type stdjsonSerializer struct{}

func (s stdjsonSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (s stdjsonSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (s stdjsonSerializer) NewEncoder(w io.Writer) JSONEncoder {
	return json.NewEncoder(w)
}

func (s stdjsonSerializer) NewDecoder(r io.Reader) JSONDecoder {
	return json.NewDecoder(r)
}

// NewStdJSON returns a JSONSerializer backed by encoding/json.
func NewStdJSON() JSONSerializer {
	return stdjsonSerializer{}
}
