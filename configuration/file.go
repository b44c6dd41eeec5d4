package configuration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the declaration as written. Pointer fields tell a missing
// key apart from a zero value.
type fileConfig struct {
	Networks  map[string]*fileNetwork  `json:"networks" yaml:"networks"`
	Compilers map[string]*fileCompiler `json:"compilers" yaml:"compilers"`
}

type fileNetwork struct {
	Host      *string        `json:"host" yaml:"host"`
	Port      *int           `json:"port" yaml:"port"`
	NetworkID *fileNetworkID `json:"network_id" yaml:"network_id"`
}

type fileCompiler struct {
	Version *string `json:"version" yaml:"version"`
}

// fileNetworkID accepts both `network_id: 5777` and `network_id: "*"`.
type fileNetworkID string

func (id *fileNetworkID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = fileNetworkID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("network_id must be a string or a number, got %s", string(data))
	}
	*id = fileNetworkID(n.String())
	return nil
}

func (id *fileNetworkID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: network_id must be a scalar", node.Line)
	}
	*id = fileNetworkID(node.Value)
	return nil
}

// scanJSONDuplicates reports object keys that occur twice in one object.
// encoding/json keeps the last value silently, which would hide a
// duplicated environment. It also reports anything after the top-level
// value. Syntax errors inside the value are left to the real decoder.
func scanJSONDuplicates(data []byte) []error {
	var problems []error
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := scanJSONValue(dec, "", &problems); err != nil {
		return problems
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		problems = append(problems, errTrailingContent)
	}
	return problems
}

func scanJSONValue(dec *json.Decoder, path string, problems *[]error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]struct{})
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := kt.(string)
			child := joinPath(path, key)
			if _, dup := seen[key]; dup {
				*problems = append(*problems, problemf(child, "duplicate key"))
			}
			seen[key] = struct{}{}
			if err := scanJSONValue(dec, child, problems); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; dec.More(); i++ {
			if err := scanJSONValue(dec, fmt.Sprintf("%s[%d]", path, i), problems); err != nil {
				return err
			}
		}
	}

	_, err = dec.Token()
	return err
}

func joinPath(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}
