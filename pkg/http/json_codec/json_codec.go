package json_codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
)

const ContentType = "application/json; charset=utf-8"

type Codec interface {
	Marshal(value any) ([]byte, error)
}

// Json marshals with encoding/json, which serializes the dynamic type of the value.
type Json struct {
	Prefix     string
	Indent     string
	EscapeHtml bool
}

func (codec *Json) Marshal(value any) ([]byte, error) {
	var buffer bytes.Buffer

	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(codec != nil && codec.EscapeHtml)
	if codec != nil && (codec.Prefix != "" || codec.Indent != "") {
		encoder.SetIndent(codec.Prefix, codec.Indent)
	}

	if err := encoder.Encode(value); err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("json encoder encode: %w", err), value)
	}

	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

var Default Codec = &Json{}
