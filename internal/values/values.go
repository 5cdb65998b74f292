// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package values

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// GetStringValue returns the string stored under k in in. An absent or
// empty value is an error only when required is set.
func GetStringValue(in *structpb.Struct, k string, required bool) (string, error) {
	mv := in.GetFields()
	v, ok := mv[k]
	if !ok || isNull(v) {
		if required {
			return "", fmt.Errorf("missing required value %q", k)
		}
		return "", nil
	}

	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("unexpected type for value %q: want string, got %s", k, kindName(v))
	}
	if s.StringValue == "" && required {
		return "", fmt.Errorf("value %q cannot be empty", k)
	}
	return s.StringValue, nil
}

// StructFields returns a copy of the top-level fields of s. Callers delete
// the keys they recognize; whatever remains is unknown.
func StructFields(s *structpb.Struct) map[string]*structpb.Value {
	m := make(map[string]*structpb.Value, len(s.GetFields()))
	for k, v := range s.GetFields() {
		m[k] = v
	}
	return m
}

func isNull(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return ok || v.GetKind() == nil
}

func kindName(v *structpb.Value) string {
	switch v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return "bool"
	case *structpb.Value_NumberValue:
		return "number"
	case *structpb.Value_ListValue:
		return "list"
	case *structpb.Value_StructValue:
		return "map"
	default:
		return "unknown"
	}
}
