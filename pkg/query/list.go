package query

import (
	"encoding/json"
	"fmt"
)

// StringList is a []string that additionally accepts a bare JSON string on
// decode. Older clients serialized single-valued status fields as scalars;
// the engine treats both spellings identically, so the decoder does too.
// Marshaling always emits an array to keep serialized forms canonical.
type StringList []string

// UnmarshalJSON accepts either "x" or ["x","y"].
func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("query: string or string array expected: %w", err)
	}
	*l = StringList(many)
	return nil
}

// Contains reports whether v is one of the list's values.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// IntList is an []int that additionally accepts a bare JSON number on
// decode, mirroring [StringList] for progression levels.
type IntList []int

// UnmarshalJSON accepts either 3 or [1,2,3].
func (l *IntList) UnmarshalJSON(data []byte) error {
	var one int
	if err := json.Unmarshal(data, &one); err == nil {
		*l = IntList{one}
		return nil
	}
	var many []int
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("query: int or int array expected: %w", err)
	}
	*l = IntList(many)
	return nil
}

// Contains reports whether v is one of the list's values.
func (l IntList) Contains(v int) bool {
	for _, n := range l {
		if n == v {
			return true
		}
	}
	return false
}
