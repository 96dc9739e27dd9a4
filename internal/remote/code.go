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

package remote

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateToken is returned when two codes share the same token
var ErrDuplicateToken = errors.New("duplicate command token")

// SamsungAddress is the device address shared by every Samsung TV code
const SamsungAddress uint16 = 0xE0E0

// Command tokens understood by the dispatcher
const (
	TokenPower      byte = 'P'
	TokenMute       byte = 'M'
	TokenVolumeUp   byte = 'U'
	TokenVolumeDown byte = 'D'
	TokenChNext     byte = 'N'
	TokenChPrev     byte = 'L'
	TokenInput      byte = 'S'
)

// Code maps a single-byte token to an IR address/command pair
type Code struct {
	Token   byte
	Address uint16
	Command uint16
	Label   string
}

// String renders the code the way the codes listing shows it
func (c Code) String() string {
	return fmt.Sprintf("%c  %-8s  0x%04X  0x%04X", c.Token, c.Label, c.Address, c.Command)
}

// Table is an immutable token lookup built once at startup
type Table struct {
	codes map[byte]Code
}

// NewTable builds a table from the given codes, rejecting duplicate tokens
func NewTable(codes ...Code) (*Table, error) {
	t := &Table{codes: make(map[byte]Code, len(codes))}
	for _, c := range codes {
		if _, exists := t.codes[c.Token]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateToken, c.Token)
		}
		if c.Label == "" {
			return nil, fmt.Errorf("code for token %q has no label", c.Token)
		}
		t.codes[c.Token] = c
	}
	return t, nil
}

// DefaultCodes returns the compiled-in Samsung TV codes
func DefaultCodes() []Code {
	return []Code{
		{Token: TokenPower, Address: SamsungAddress, Command: 0x40BF, Label: "POWER"},
		{Token: TokenMute, Address: SamsungAddress, Command: 0xF00F, Label: "MUTE"},
		{Token: TokenVolumeUp, Address: SamsungAddress, Command: 0xE01F, Label: "VOL UP"},
		{Token: TokenVolumeDown, Address: SamsungAddress, Command: 0xD02F, Label: "VOL DOWN"},
		{Token: TokenChNext, Address: SamsungAddress, Command: 0x48B7, Label: "CH NEXT"},
		{Token: TokenChPrev, Address: SamsungAddress, Command: 0x08F7, Label: "CH PREV"},
		{Token: TokenInput, Address: SamsungAddress, Command: 0x807F, Label: "SOURCE"},
	}
}

// DefaultTable returns a table holding DefaultCodes
func DefaultTable() *Table {
	codes := DefaultCodes()
	t := &Table{codes: make(map[byte]Code, len(codes))}
	for _, c := range codes {
		t.codes[c.Token] = c
	}
	return t
}

// Lookup resolves a token by exact byte match
func (t *Table) Lookup(token byte) (Code, bool) {
	c, ok := t.codes[token]
	return c, ok
}

// Len returns the number of known tokens
func (t *Table) Len() int {
	return len(t.codes)
}

// Codes returns the table entries ordered by token
func (t *Table) Codes() []Code {
	out := make([]Code, 0, len(t.codes))
	for _, c := range t.codes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}
