package form

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// store holds form data as nested maps and slices addressed by dotted paths
// ("owner.email", "tags.0"). It is not synchronized; Form guards it.
type store struct {
	values map[string]any
}

func newStore() *store {
	return &store{values: make(map[string]any)}
}

// seed writes values in path order. A rejected path does not stop the
// remaining writes; all rejections are joined into the returned error.
func (s *store) seed(values map[string]any) error {
	var errs []error
	for _, path := range sortedKeys(values) {
		if err := s.set(path, deepCopy(values[path])); err != nil {
			errs = append(errs, fmt.Errorf("form: default %q: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func (s *store) get(path string) (any, bool) {
	return getPath(s.values, path)
}

func (s *store) remove(path string) {
	deletePath(s.values, path)
}

func (s *store) set(path string, value any) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("form: empty path")
	}
	return setPath(s.values, path, value)
}

// nested returns a deep copy of the data.
func (s *store) nested() map[string]any {
	return deepCopy(s.values).(map[string]any)
}

// flat returns a dotted-path view of the leaves. Empty containers are kept
// as leaves so they survive a round trip.
func (s *store) flat() map[string]any {
	out := make(map[string]any)
	flatten("", s.values, out)
	return out
}

func flatten(prefix string, value any, out map[string]any) {
	switch v := value.(type) {
	case map[string]any:
		if len(v) == 0 && prefix != "" {
			out[prefix] = map[string]any{}
			return
		}
		for key, val := range v {
			flatten(joinPath(prefix, key), val, out)
		}
	case []any:
		if len(v) == 0 {
			out[prefix] = []any{}
			return
		}
		for idx, val := range v {
			flatten(joinPath(prefix, strconv.Itoa(idx)), val, out)
		}
	default:
		if prefix != "" {
			out[prefix] = v
		}
	}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func setPath(root map[string]any, path string, value any) error {
	if root == nil {
		return fmt.Errorf("form: root map is nil")
	}
	_, err := assign(root, strings.Split(path, "."), value, path)
	return err
}

// assign writes value under segments inside container and returns the
// container, which may have grown when it is a slice.
func assign(container any, segments []string, value any, path string) (any, error) {
	segment, rest := segments[0], segments[1:]
	switch node := container.(type) {
	case map[string]any:
		if len(rest) == 0 {
			node[segment] = value
			return node, nil
		}
		child, err := assign(ensureContainer(node[segment], rest[0]), rest, value, path)
		if err != nil {
			return nil, err
		}
		node[segment] = child
		return node, nil

	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil {
			return nil, fmt.Errorf("form: expected numeric segment, got %q", segment)
		}
		if idx < 0 {
			return nil, fmt.Errorf("form: negative index in path %q", path)
		}
		if len(node) <= idx {
			node = append(node, make([]any, idx+1-len(node))...)
		}
		if len(rest) == 0 {
			node[idx] = value
			return node, nil
		}
		child, err := assign(ensureContainer(node[idx], rest[0]), rest, value, path)
		if err != nil {
			return nil, err
		}
		node[idx] = child
		return node, nil

	default:
		return nil, fmt.Errorf("form: unexpected container for segment %q", segment)
	}
}

func ensureContainer(existing any, next string) any {
	if _, err := strconv.Atoi(next); err == nil {
		if slice, ok := existing.([]any); ok {
			return slice
		}
		return []any{}
	}
	if m, ok := existing.(map[string]any); ok && m != nil {
		return m
	}
	return make(map[string]any)
}

// deletePath removes a map entry. Slice elements are set to nil so sibling
// indexes keep their positions.
func deletePath(root map[string]any, path string) {
	segments := strings.Split(path, ".")
	parentPath := strings.Join(segments[:len(segments)-1], ".")
	last := segments[len(segments)-1]

	var parent any = root
	if parentPath != "" {
		var ok bool
		if parent, ok = getPath(root, parentPath); !ok {
			return
		}
	}
	switch node := parent.(type) {
	case map[string]any:
		delete(node, last)
	case []any:
		if idx, err := strconv.Atoi(last); err == nil && idx >= 0 && idx < len(node) {
			node[idx] = nil
		}
	}
}
