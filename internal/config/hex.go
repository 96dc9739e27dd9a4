package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// HexUint16 is a 16-bit value written as "0xE0E0" in YAML. Plain integers are accepted too.
type HexUint16 uint16

func (h *HexUint16) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a 16-bit value", value.Line)
	}
	v, err := strconv.ParseUint(value.Value, 0, 16)
	if err != nil {
		return fmt.Errorf("line %d: invalid 16-bit value %q", value.Line, value.Value)
	}
	*h = HexUint16(v)
	return nil
}

func (h HexUint16) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("0x%04X", uint16(h)), nil
}
