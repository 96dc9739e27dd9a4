// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package flipper reads Flipper Zero infrared signal files (.ir) and turns
// the Samsung32 entries into dispatcher codes.
package flipper

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"irremote/internal/remote"
)

// ErrUnsupportedProtocol is returned for signals that are not parsed Samsung32
var ErrUnsupportedProtocol = errors.New("unsupported ir protocol")

// Signal is one named button block of a .ir file
type Signal struct {
	Name     string
	Type     string
	Protocol string
	Address  string
	Command  string

	// Fields holds every key of the block, including the ones above
	Fields map[string]string
}

// ParseFile parses the .ir file at path
func ParseFile(path string) ([]Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ir file: %w", err)
	}
	defer f.Close()

	signals, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return signals, nil
}

// Parse reads "key: value" lines. Each "name" key starts a new signal;
// keys before the first name (Filetype, Version) are header and skipped.
func Parse(r io.Reader) ([]Signal, error) {
	var (
		signals []Signal
		current *Signal
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "name" {
			if current != nil {
				signals = append(signals, *current)
			}
			current = &Signal{Name: value, Fields: map[string]string{"name": value}}
			continue
		}
		if current == nil {
			continue
		}

		current.Fields[key] = value
		switch key {
		case "type":
			current.Type = value
		case "protocol":
			current.Protocol = value
		case "address":
			current.Address = value
		case "command":
			current.Command = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if current != nil {
		signals = append(signals, *current)
	}
	return signals, nil
}

// Code converts a parsed Samsung32 signal into a dispatcher code for token
func (s Signal) Code(token byte, label string) (remote.Code, error) {
	if s.Type != "parsed" || !strings.EqualFold(s.Protocol, "Samsung32") {
		return remote.Code{}, fmt.Errorf("%w: %s (%s %s)", ErrUnsupportedProtocol, s.Name, s.Type, s.Protocol)
	}

	address, err := parseHexBytes(s.Address)
	if err != nil {
		return remote.Code{}, fmt.Errorf("signal %s address: %w", s.Name, err)
	}
	command, err := parseHexBytes(s.Command)
	if err != nil {
		return remote.Code{}, fmt.Errorf("signal %s command: %w", s.Name, err)
	}
	if address > 0xFF || command > 0xFF {
		return remote.Code{}, fmt.Errorf("signal %s: samsung32 address and command are single bytes", s.Name)
	}

	if label == "" {
		label = strings.ToUpper(s.Name)
	}

	return remote.Code{
		Token:   token,
		Address: uint16(address) | uint16(address)<<8,
		Command: uint16(command),
		Label:   label,
	}, nil
}

// parseHexBytes decodes Flipper's little-endian "07 00 00 00" notation
func parseHexBytes(s string) (uint32, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 4 {
		return 0, fmt.Errorf("expected 1 to 4 hex bytes, got %q", s)
	}
	var v uint32
	for i, f := range fields {
		b, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid hex byte %q: %w", f, err)
		}
		v |= uint32(b) << (8 * uint(i))
	}
	return v, nil
}
