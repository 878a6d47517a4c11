package rsvp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type AnswerKind int

const (
	AnswerSingle AnswerKind = iota
	AnswerMulti
)

// AnswerValue holds either a single string (text and single_choice
// questions) or a list of strings (multiple_choice). On the wire it is a
// bare JSON string or a JSON array of strings.
type AnswerValue struct {
	Kind   AnswerKind
	Single string
	Multi  []string
}

func SingleAnswer(v string) AnswerValue {
	return AnswerValue{Kind: AnswerSingle, Single: v}
}

func MultiAnswer(v ...string) AnswerValue {
	if v == nil {
		v = []string{}
	}
	return AnswerValue{Kind: AnswerMulti, Multi: v}
}

// Empty reports whether the answer carries no usable content.
func (a AnswerValue) Empty() bool {
	if a.Kind == AnswerMulti {
		return len(a.Multi) == 0
	}
	return strings.TrimSpace(a.Single) == ""
}

// String renders the answer for display and export.
func (a AnswerValue) String() string {
	if a.Kind == AnswerMulti {
		return strings.Join(a.Multi, ", ")
	}
	return a.Single
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.Kind == AnswerMulti {
		vals := a.Multi
		if vals == nil {
			vals = []string{}
		}
		return json.Marshal(vals)
	}
	return json.Marshal(a.Single)
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = SingleAnswer("")
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding answer string: %w", err)
		}
		*a = SingleAnswer(s)
	case '[':
		var vals []string
		if err := json.Unmarshal(data, &vals); err != nil {
			return fmt.Errorf("decoding answer list: %w", err)
		}
		*a = MultiAnswer(vals...)
	default:
		return fmt.Errorf("answer value must be a string or a list of strings")
	}
	return nil
}
