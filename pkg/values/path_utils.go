package values

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePath splits a dot-notation path into segments.
// Array indices use the format "key[index]".
// Example: "backend.env[0].name" -> ["backend", "env[0]", "name"]
func ParsePath(path string) []string {
	return strings.Split(path, ".")
}

// GetValueAtPath retrieves the value at the given path segments.
// Returns ErrNotFound if any segment is missing or of the wrong shape.
func GetValueAtPath(data map[string]interface{}, path []string) (interface{}, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	var current interface{} = data
	for _, part := range path {
		key, index, hasIndex := parseArrayPath(part)

		currentMap, ok := toStringMap(current)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a mapping", ErrNotFound, key)
		}
		next, exists := currentMap[key]
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}

		if hasIndex {
			arr, ok := next.([]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: %s is not a list", ErrNotFound, key)
			}
			if index >= len(arr) {
				return nil, fmt.Errorf("%w: %s[%d] out of range", ErrNotFound, key, index)
			}
			next = arr[index]
		}
		current = next
	}
	return current, nil
}

// SetValueAtPath sets a value in a nested map structure using a path.
// Intermediate maps are created as needed. For array access, use the format
// "key[index]" in the path element; arrays are extended with empty maps.
func SetValueAtPath(data map[string]interface{}, path []string, value interface{}) error {
	if data == nil {
		return ErrNilDocument
	}
	if len(path) == 0 {
		return ErrEmptyPath
	}

	current := data
	for i, part := range path {
		isLast := i == len(path)-1
		key, index, hasIndex := parseArrayPath(part)

		if hasIndex {
			if _, exists := current[key]; !exists {
				arr := make([]interface{}, index+1)
				for j := range arr {
					arr[j] = make(map[string]interface{})
				}
				current[key] = arr
			}

			arr, ok := current[key].([]interface{})
			if !ok {
				return fmt.Errorf("path element %s exists but is not an array", key)
			}
			for len(arr) <= index {
				arr = append(arr, make(map[string]interface{}))
			}
			current[key] = arr

			if isLast {
				arr[index] = value
			} else {
				if arr[index] == nil {
					arr[index] = make(map[string]interface{})
				}
				nextMap, ok := arr[index].(map[string]interface{})
				if !ok {
					return fmt.Errorf("cannot traverse through non-map at index %d", index)
				}
				current = nextMap
			}
			continue
		}

		if isLast {
			current[key] = value
		} else {
			if _, exists := current[key]; !exists {
				current[key] = make(map[string]interface{})
			}
			nextMap, ok := current[key].(map[string]interface{})
			if !ok {
				return fmt.Errorf("cannot traverse through non-map at key %s", key)
			}
			current = nextMap
		}
	}
	return nil
}

// parseArrayPath extracts the key and index from a path segment that may
// contain an array index. Example: "env[2]" -> "env", 2, true
func parseArrayPath(part string) (string, int, bool) {
	start := strings.Index(part, "[")
	end := strings.Index(part, "]")

	if start != -1 && end != -1 && start < end {
		key := part[:start]
		indexStr := part[start+1 : end]
		if index, err := strconv.Atoi(indexStr); err == nil && index >= 0 {
			return key, index, true
		}
	}
	return part, 0, false
}
