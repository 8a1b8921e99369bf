// Package notes implements the note store: the persisted collection of notes
// partitioned by context key, its file format and the add/remove/list
// operations over it.
package notes

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// GlobalKey is the context key for notes that are not tied to a directory.
const GlobalKey = "global"

// MaxID is the largest id a note can receive. Ids and counters stay within
// 32 bits so files remain readable by every version of the tool.
const MaxID = math.MaxInt32 - 1

// Collection is the root persisted document.
type Collection struct {
	Notes map[string]*Context `json:"notes"`
}

// Context holds the notes of one context key.
//
// NextID is persisted as "count" for compatibility with existing files; it is
// the id the next added note receives, not the number of entries.
type Context struct {
	NextID  int            `json:"count"`
	Entries map[int]string `json:"notes"`
}

// Note is a single entry as presented to callers.
type Note struct {
	ID   int
	Text string
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{Notes: make(map[string]*Context)}
}

// Add stores text under key and returns the id it was assigned.
// The context is created on first use with NextID 1.
func (c *Collection) Add(key, text string) (int, error) {
	ctx, ok := c.Notes[key]
	if !ok {
		ctx = &Context{NextID: 1, Entries: make(map[int]string)}
		c.Notes[key] = ctx
	}
	if ctx.NextID > MaxID {
		return 0, ErrIDsExhausted
	}
	id := ctx.NextID
	ctx.Entries[id] = text
	ctx.NextID++
	return id, nil
}

// Remove deletes note id from key. NextID is left untouched and the context
// stays present even when its last entry goes, so ids are never reused.
func (c *Collection) Remove(key string, id int) error {
	ctx, ok := c.Notes[key]
	if !ok {
		return ErrContextNotFound
	}
	if _, ok := ctx.Entries[id]; !ok {
		return &NoteNotFoundError{ID: id}
	}
	delete(ctx.Entries, id)
	return nil
}

// List returns the notes stored under key in ascending id order.
// A missing context and an emptied one both yield an empty slice.
func (c *Collection) List(key string) []Note {
	ctx, ok := c.Notes[key]
	if !ok {
		return make([]Note, 0)
	}
	out := make([]Note, 0, len(ctx.Entries))
	for id, text := range ctx.Entries {
		out = append(out, Note{ID: id, Text: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UnmarshalJSON decodes a context, rejecting ids that collide once parsed
// ("1" and "01") and counters outside the id range. Load treats a rejected
// document like any other unparseable file.
func (c *Context) UnmarshalJSON(data []byte) error {
	var raw struct {
		NextID  int               `json:"count"`
		Entries map[string]string `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.NextID > MaxID+1 {
		return fmt.Errorf("note counter %d out of range", raw.NextID)
	}

	entries := make(map[int]string, len(raw.Entries))
	for k, text := range raw.Entries {
		id, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("note id %q: %w", k, err)
		}
		if id > MaxID {
			return fmt.Errorf("note id %d out of range", id)
		}
		if _, dup := entries[id]; dup {
			return fmt.Errorf("duplicate note id %d", id)
		}
		entries[id] = text
	}

	c.NextID = raw.NextID
	c.Entries = entries
	return nil
}

// normalize repairs documents written by hand or by older versions so the
// id invariant holds: NextID is always above every stored id.
func (c *Collection) normalize() {
	if c.Notes == nil {
		c.Notes = make(map[string]*Context)
	}
	for key, ctx := range c.Notes {
		if ctx == nil {
			delete(c.Notes, key)
			continue
		}
		if ctx.Entries == nil {
			ctx.Entries = make(map[int]string)
		}
		if ctx.NextID < 1 {
			ctx.NextID = 1
		}
		for id := range ctx.Entries {
			if id >= ctx.NextID {
				ctx.NextID = id + 1
			}
		}
	}
}
