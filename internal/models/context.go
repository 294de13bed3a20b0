package models

// ContextEntry is one key/value pair of a TemplateContext.
type ContextEntry struct {
	Key   string
	Value any
}

// TemplateContext is an insertion-ordered string-to-scalar mapping built
// once per turn and passed by value into the template engine. It is only
// extended through Set (replace-in-place or append) and Merge (overlay
// that returns a fresh copy), so callers never share backing storage.
type TemplateContext struct {
	entries []ContextEntry
}

// Set stores a value under key, keeping the original insertion position
// when the key already exists.
func (c *TemplateContext) Set(key string, value any) {
	for i := range c.entries {
		if c.entries[i].Key == key {
			c.entries[i].Value = value
			return
		}
	}
	c.entries = append(c.entries, ContextEntry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (c TemplateContext) Get(key string) (any, bool) {
	for _, e := range c.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Merge returns a new context holding the receiver's entries overlaid
// with the other context's entries. Neither input is modified.
func (c TemplateContext) Merge(other TemplateContext) TemplateContext {
	merged := TemplateContext{entries: make([]ContextEntry, len(c.entries), len(c.entries)+len(other.entries))}
	copy(merged.entries, c.entries)
	for _, e := range other.entries {
		merged.Set(e.Key, e.Value)
	}
	return merged
}

// Keys returns the keys in insertion order.
func (c TemplateContext) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (c TemplateContext) Len() int {
	return len(c.entries)
}
