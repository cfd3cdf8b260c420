//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

// Package jsonutil provides utility functions for working with JSON values.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

const emptyJSONObject = "{}"

// AsJSON encodes the specified value into a JSON string.
func AsJSON(v interface{}) string {
	return asJSONString(v, false)
}

// AsPrettyJSON encodes the specified value into a JSON string, adding
// appropriate indents in the returned string.
func AsPrettyJSON(v interface{}) string {
	return asJSONString(v, true)
}

func asJSONString(v interface{}, pretty bool) string {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return emptyJSONObject
	}
	return string(b)
}

// ToObject parses the specified string as a JSON object.
func ToObject(jsonStr string) (v map[string]interface{}, err error) {
	err = json.Unmarshal([]byte(jsonStr), &v)
	return v, err
}

// GetStringFromObject returns the string value of the specified field of the
// JSON object m, and whether the field exists with a string value.
func GetStringFromObject(m map[string]interface{}, field string) (s string, ok bool) {
	if m == nil {
		return
	}
	var v interface{}
	if v, ok = m[field]; !ok {
		return
	}
	s, ok = v.(string)
	return
}

// GetNumberFromObject returns the numeric value of the specified field of
// the JSON object m, and whether the field exists with a numeric value.
func GetNumberFromObject(m map[string]interface{}, field string) (f float64, ok bool) {
	if m == nil {
		return
	}
	var v interface{}
	if v, ok = m[field]; !ok {
		return
	}
	f, ok = v.(float64)
	return
}

// GetArrayFromObject returns the array value of the specified field of the
// JSON object m, and whether the field exists with an array value.
func GetArrayFromObject(m map[string]interface{}, field string) (a []interface{}, ok bool) {
	if m == nil {
		return
	}
	var v interface{}
	if v, ok = m[field]; !ok {
		return
	}
	a, ok = v.([]interface{})
	return
}

// ExpectObject asserts the specified value is a JSON object.
func ExpectObject(data interface{}) (map[string]interface{}, error) {
	if m, ok := data.(map[string]interface{}); ok {
		return m, nil
	}
	return nil, fmt.Errorf("expect a JSON object, got %T", data)
}

// ExpectArray asserts the specified value is a JSON array.
func ExpectArray(data interface{}) ([]interface{}, error) {
	if a, ok := data.([]interface{}); ok {
		return a, nil
	}
	return nil, fmt.Errorf("expect a JSON array, got %T", data)
}

// ExpectString asserts the specified value is a JSON string.
func ExpectString(data interface{}) (string, error) {
	if s, ok := data.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expect a JSON string, got %T", data)
}

// ExpectNumber asserts the specified value is a JSON number.
func ExpectNumber(data interface{}) (float64, error) {
	if f, ok := data.(float64); ok {
		return f, nil
	}
	return 0, fmt.Errorf("expect a JSON number, got %T", data)
}
