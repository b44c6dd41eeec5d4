package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/TopiaNetwork/contractconf/codec/json"
	"github.com/TopiaNetwork/contractconf/codec/yaml"
)

type CodecType byte

const (
	CodecType_Unknown CodecType = iota
	CodecType_JSON
	CodecType_YAML
)

func (c CodecType) String() string {
	switch c {
	case CodecType_JSON:
		return "json"
	case CodecType_YAML:
		return "yaml"
	}
	return "unknown"
}

// ParseCodecType maps a format name such as "json" or "yml" to its codec.
func ParseCodecType(name string) (CodecType, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "json":
		return CodecType_JSON, nil
	case "yaml", "yml":
		return CodecType_YAML, nil
	}
	return CodecType_Unknown, fmt.Errorf("unsupported codec %q", name)
}

// CodecTypeFromPath picks the codec from a file extension.
func CodecTypeFromPath(path string) (CodecType, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return CodecType_Unknown, fmt.Errorf("no file extension on %q", path)
	}
	return ParseCodecType(ext)
}

type Marshaler interface {
	Marshal(interface{}) ([]byte, error)

	Unmarshal([]byte, interface{}) error
}

type Encoder interface {
	Encode(interface{}) error
	Reset(w io.Writer)
}

type Decoder interface {
	Decode(interface{}) error
	Reset(r io.Reader)
}

func CreateMarshaler(codecType CodecType) Marshaler {
	switch codecType {
	case CodecType_JSON:
		return &json.MarshalJson{}
	case CodecType_YAML:
		return &yaml.MarshalYaml{}
	default:
		panic(fmt.Errorf("invalid codec type %d when CreateMarshaler", codecType).Error())
	}
}

func CreateEncoder(codecType CodecType, w io.Writer) Encoder {
	switch codecType {
	case CodecType_JSON:
		return json.NewEncoderJson(w)
	case CodecType_YAML:
		return yaml.NewEncoderYaml(w)
	default:
		panic(fmt.Errorf("invalid codec type %d when CreateEncoder", codecType).Error())
	}
}

// CreateDecoder returns a strict decoder: fields the target type does not
// declare are rejected.
func CreateDecoder(codecType CodecType, r io.Reader) Decoder {
	switch codecType {
	case CodecType_JSON:
		return json.NewDecoderJson(r)
	case CodecType_YAML:
		return yaml.NewDecoderYaml(r)
	default:
		panic(fmt.Errorf("invalid codec type %d when CreateDecoder", codecType).Error())
	}
}
