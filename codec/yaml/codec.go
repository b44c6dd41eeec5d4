package yaml

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"
)

type MarshalYaml struct{}

func (m *MarshalYaml) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *MarshalYaml) Unmarshal(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}

type EncoderYaml struct {
	w io.Writer
}

func NewEncoderYaml(w io.Writer) *EncoderYaml {
	return &EncoderYaml{w: w}
}

// Encode writes one complete document per call.
func (e *EncoderYaml) Encode(v interface{}) error {
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (e *EncoderYaml) Reset(w io.Writer) {
	e.w = w
}

type DecoderYaml struct {
	yamlDecoder *yaml.Decoder
}

func NewDecoderYaml(r io.Reader) *DecoderYaml {
	d := &DecoderYaml{}
	d.Reset(r)
	return d
}

func (d *DecoderYaml) Decode(v interface{}) error {
	return d.yamlDecoder.Decode(v)
}

func (d *DecoderYaml) Reset(r io.Reader) {
	d.yamlDecoder = yaml.NewDecoder(r)
	d.yamlDecoder.KnownFields(true)
}
