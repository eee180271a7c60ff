package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Count is one key of a per-user counter mapping.
type Count struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// Counts is a JSON object of string → integer that keeps the key order of
// the document it was decoded from. Rankings are displayed in that order.
type Counts []Count

func (c Counts) Len() int { return len(c) }

func (c Counts) Get(key string) (int, bool) {
	for _, e := range c {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

func (c Counts) Keys() []string {
	out := make([]string, len(c))
	for i, e := range c {
		out[i] = e.Key
	}
	return out
}

func (c Counts) Sum() int {
	total := 0
	for _, e := range c {
		total += e.Value
	}
	return total
}

func (c Counts) Clone() Counts {
	if c == nil {
		return nil
	}
	out := make(Counts, len(c))
	copy(out, c)
	return out
}

// set replaces the value of an existing key in place, matching how a JSON
// object with a repeated key resolves to its last value.
func (c Counts) set(key string, value int) Counts {
	for i := range c {
		if c[i].Key == key {
			c[i].Value = value
			return c
		}
	}
	return append(c, Count{Key: key, Value: value})
}

func (c *Counts) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}
	out := Counts{}
	err := walkObject(data, func(key string, raw json.RawMessage) error {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("count for %q: %w", key, err)
		}
		out = out.set(key, n)
		return nil
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		fmt.Fprintf(&buf, ":%d", e.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UserLinks holds the per-platform link counts of one participant.
type UserLinks struct {
	User      string `json:"user"`
	Platforms Counts `json:"platforms"`
}

// LinkCounts is the nested user → platform → count object, ordered like Counts.
type LinkCounts []UserLinks

func (l LinkCounts) Len() int { return len(l) }

func (l LinkCounts) Clone() LinkCounts {
	if l == nil {
		return nil
	}
	out := make(LinkCounts, len(l))
	for i, u := range l {
		out[i] = UserLinks{User: u.User, Platforms: u.Platforms.Clone()}
	}
	return out
}

func (l *LinkCounts) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	out := LinkCounts{}
	err := walkObject(data, func(user string, raw json.RawMessage) error {
		var platforms Counts
		if err := json.Unmarshal(raw, &platforms); err != nil {
			return fmt.Errorf("links for %q: %w", user, err)
		}
		for i := range out {
			if out[i].User == user {
				out[i].Platforms = platforms
				return nil
			}
		}
		out = append(out, UserLinks{User: user, Platforms: platforms})
		return nil
	})
	if err != nil {
		return err
	}
	*l = out
	return nil
}

func (l LinkCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, u := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(u.User)
		if err != nil {
			return nil, err
		}
		v, err := u.Platforms.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// walkObject calls fn for every member of a JSON object in document order.
func walkObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
