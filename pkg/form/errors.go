package form

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/field"
)

// ValidationTypeServer tags errors that came back from a submission endpoint
// rather than from a local validator.
const ValidationTypeServer field.ValidationType = "server"

// ApplyErrorPayload maps a server error payload onto the registered fields.
// Keys may be dotted paths, JSON pointers ("/body/owner/email"), bracket
// paths ("$.tags[0]") or wrapped in envelope segments such as body, request
// or data. Each key resolves to the deepest registered field it names.
// Matched messages replace the field's previous server errors as
// ValidationTypeServer errors; unmatched and form-level messages are returned
// trimmed and de-duplicated.
func (f *Form) ApplyErrorPayload(payload map[string][]string) []string {
	if len(payload) == 0 {
		return nil
	}

	f.mu.RLock()
	registry := make(map[string]*field.Field, len(f.fields))
	for path, fd := range f.fields {
		registry[path] = fd
	}
	f.mu.RUnlock()

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	byField := make(map[*field.Field]*messageSet)
	formLevel := &messageSet{}
	for _, key := range keys {
		fd := resolveErrorKey(key, registry)
		if fd == nil {
			formLevel.add(payload[key]...)
			continue
		}
		set, ok := byField[fd]
		if !ok {
			set = &messageSet{}
			byField[fd] = set
		}
		set.add(payload[key]...)
	}

	for fd, set := range byField {
		if len(set.list) == 0 {
			continue
		}
		kept := filterServerErrors(fd.Errors())
		for _, message := range set.list {
			kept = append(kept, field.ValidationError{Message: message, ValidationType: ValidationTypeServer})
		}
		fd.SetErrors(kept)
	}

	if len(formLevel.list) > 0 {
		f.logger.Debug("server errors without a matching field", zap.Int("messages", len(formLevel.list)))
	}
	return formLevel.list
}

// ClearServerErrors removes every ValidationTypeServer error.
func (f *Form) ClearServerErrors() {
	for _, fd := range f.Fields() {
		fd.ClearErrors(ValidationTypeServer)
	}
}

func filterServerErrors(errs []field.ValidationError) []field.ValidationError {
	kept := errs[:0]
	for _, e := range errs {
		if e.ValidationType != ValidationTypeServer {
			kept = append(kept, e)
		}
	}
	return kept
}

// messageSet keeps trimmed messages in arrival order without duplicates.
type messageSet struct {
	seen map[string]struct{}
	list []string
}

func (m *messageSet) add(messages ...string) {
	if m.seen == nil {
		m.seen = make(map[string]struct{})
	}
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := m.seen[trimmed]; dup {
			continue
		}
		m.seen[trimmed] = struct{}{}
		m.list = append(m.list, trimmed)
	}
}

var envelopeSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

// resolveErrorKey returns the registered field a payload key points at, or
// nil for form-level keys. Leading envelope segments may be skipped and
// numeric indexes ignored; the match covering the most segments wins.
func resolveErrorKey(key string, registry map[string]*field.Field) *field.Field {
	segments := errorKeySegments(key)
	if len(segments) == 0 {
		return nil
	}

	var best *field.Field
	depth := 0
	for _, candidate := range [][]string{segments, withoutIndexes(segments)} {
		for start := 0; start <= envelopeDepth(candidate); start++ {
			rest := candidate[start:]
			for end := len(rest); end > depth; end-- {
				if fd, ok := registry[strings.Join(rest[:end], ".")]; ok {
					best, depth = fd, end
					break
				}
			}
		}
	}
	return best
}

// errorKeySegments splits a dotted, bracket or JSON pointer key. Form-level
// keys yield nil.
func errorKeySegments(key string) []string {
	clean := strings.TrimSpace(key)
	switch strings.ToLower(clean) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return nil
	}

	clean = strings.TrimLeft(clean, "#/.$")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			// JSON pointer escapes
			segment = strings.ReplaceAll(segment, "~1", "/")
			out = append(out, strings.ReplaceAll(segment, "~0", "~"))
		}
	}
	return out
}

func envelopeDepth(segments []string) int {
	n := 0
	for n < len(segments)-1 {
		if _, ok := envelopeSegments[strings.ToLower(segments[n])]; !ok {
			break
		}
		n++
	}
	return n
}

func withoutIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err != nil {
			out = append(out, segment)
		}
	}
	return out
}
