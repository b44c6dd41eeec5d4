package json

import (
	"encoding/json"
	"io"
)

type MarshalJson struct{}

func (m *MarshalJson) Marshal(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (m *MarshalJson) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

type EncoderJson struct {
	jsonEncoder *json.Encoder
}

func NewEncoderJson(w io.Writer) *EncoderJson {
	e := &EncoderJson{}
	e.Reset(w)
	return e
}

func (e *EncoderJson) Encode(v interface{}) error {
	return e.jsonEncoder.Encode(v)
}

func (e *EncoderJson) Reset(w io.Writer) {
	e.jsonEncoder = json.NewEncoder(w)
	e.jsonEncoder.SetIndent("", "  ")
}

type DecoderJson struct {
	jsonDecoder *json.Decoder
}

func NewDecoderJson(r io.Reader) *DecoderJson {
	d := &DecoderJson{}
	d.Reset(r)
	return d
}

func (d *DecoderJson) Decode(v interface{}) error {
	return d.jsonDecoder.Decode(v)
}

func (d *DecoderJson) Reset(r io.Reader) {
	d.jsonDecoder = json.NewDecoder(r)
	d.jsonDecoder.DisallowUnknownFields()
}
