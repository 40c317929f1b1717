// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matrix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PermissionSet maps a permission key to granted (true) or denied (false)
// for one (folder, role) pair.
//
// The JSON form is an object of key -> bool. Records written by older form
// handlers stored checkbox values (0/1 or the checkbox return value), so
// decoding accepts numbers and strings as well and normalizes them to bool.
type PermissionSet map[string]bool

// Granted reports whether key is granted. Missing keys are denied.
func (p PermissionSet) Granted(key string) bool {
	return p[key]
}

// Clone returns a copy of the set.
func (p PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Project returns a set holding exactly the keys of columns, taking the
// value from p and defaulting to false.
func (p PermissionSet) Project(columns []Definition) PermissionSet {
	out := make(PermissionSet, len(columns))
	for _, c := range columns {
		out[c.Key] = p[c.Key]
	}
	return out
}

// Equal reports whether both sets grant the same keys. A key mapped to
// false and an absent key are treated alike.
func (p PermissionSet) Equal(other PermissionSet) bool {
	for k, v := range p {
		if v != other[k] {
			return false
		}
	}
	for k, v := range other {
		if v != p[k] {
			return false
		}
	}
	return true
}

// MarshalJSON always emits a JSON object, never null.
func (p PermissionSet) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]bool(p))
}

func (p *PermissionSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	// legacy records store an empty set as []
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("[]")) {
		*p = PermissionSet{}
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode permission set: %w", err)
	}

	set := make(PermissionSet, len(raw))
	for key, value := range raw {
		granted, err := parseGrant(value)
		if err != nil {
			return fmt.Errorf("decode permission %q: %w", key, err)
		}
		set[key] = granted
	}
	*p = set
	return nil
}

// ParsePermissionSet decodes a stored permission set.
func ParsePermissionSet(data string) (PermissionSet, error) {
	var set PermissionSet
	if err := set.UnmarshalJSON([]byte(data)); err != nil {
		return nil, err
	}
	return set, nil
}

// Encode renders the set in its stored JSON form.
func (p PermissionSet) Encode() (string, error) {
	b, err := p.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func parseGrant(value json.RawMessage) (bool, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return false, nil
	}

	switch value[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(value, &b); err != nil {
			return false, err
		}
		return b, nil
	case 'n':
		return false, nil
	case '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return false, err
		}
		switch s {
		case "", "0", "false":
			return false, nil
		}
		return true, nil
	default:
		n, err := strconv.ParseFloat(string(value), 64)
		if err != nil {
			return false, fmt.Errorf("unsupported value %s", value)
		}
		return n != 0, nil
	}
}
