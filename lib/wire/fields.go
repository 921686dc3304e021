// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
	"math"
)

// asObject requires v to be a non-null JSON object.
func asObject(shape string, v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a JSON object, got %T", shape, v)
	}
	return obj, nil
}

// stringField requires obj[key] to be present and a string.
func stringField(shape string, obj map[string]any, key string) (string, error) {
	raw, present := obj[key]
	if !present {
		return "", fmt.Errorf("%s: %s is required", shape, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: %s must be a string, got %T", shape, key, raw)
	}
	return s, nil
}

// nullableStringField requires obj[key] to be present and either
// exactly null or a string. Returns nil for null.
func nullableStringField(shape string, obj map[string]any, key string) (*string, error) {
	raw, present := obj[key]
	if !present {
		return nil, fmt.Errorf("%s: %s is required", shape, key)
	}
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s: %s must be a string or null, got %T", shape, key, raw)
	}
	return &s, nil
}

// numberField requires obj[key] to be present and a finite number.
func numberField(shape string, obj map[string]any, key string) (float64, error) {
	raw, present := obj[key]
	if !present {
		return 0, fmt.Errorf("%s: %s is required", shape, key)
	}
	n, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("%s: %s must be a number, got %T", shape, key, raw)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%s: %s must be a finite number", shape, key)
	}
	return n, nil
}

// intField is numberField truncated to int. The API serializes counts
// and capacities as integers; truncation only matters if the server
// misbehaves, and then the value is still rendered rather than trusted.
func intField(shape string, obj map[string]any, key string) (int, error) {
	n, err := numberField(shape, obj, key)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// boolField requires obj[key] to be present and a boolean.
func boolField(shape string, obj map[string]any, key string) (bool, error) {
	raw, present := obj[key]
	if !present {
		return false, fmt.Errorf("%s: %s is required", shape, key)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%s: %s must be a boolean, got %T", shape, key, raw)
	}
	return b, nil
}

// stringSliceField requires obj[key] to be present and an array whose
// every element is a string. The result is a fresh slice.
func stringSliceField(shape string, obj map[string]any, key string) ([]string, error) {
	raw, present := obj[key]
	if !present {
		return nil, fmt.Errorf("%s: %s is required", shape, key)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %s must be an array of strings, got %T", shape, key, raw)
	}
	result := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %s[%d] must be a string, got %T", shape, key, i, item)
		}
		result[i] = s
	}
	return result, nil
}
