// Package object decodes serialized objects into value trees and typed
// variants.
package object

import (
	"context"
	"fmt"
	"sync"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/cursor"
	"unity-asset-reader/internal/schema"
	"unity-asset-reader/internal/serialized"
	"unity-asset-reader/internal/unityver"
)

// Status summarizes how far decoding got.
type Status uint8

const (
	StatusOK         Status = iota
	StatusPartial           // fields up to a gap or overrun
	StatusOpaque            // no layout; raw range only
	StatusUnreadable        // record range outside the buffer
)

var statusNames = [...]string{"ok", "partial", "opaque", "unreadable"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", s)
}

// Object is one decoded record.
type Object struct {
	Container *serialized.Container
	Record    serialized.ObjectRecord
	PathID    int64
	ClassID   classid.ID
	Version   unityver.Version
	Schema    *schema.Schema

	Fields  *Struct
	Variant Variant
	Status  Status
	Err     error

	// Warnings are soundness notes that do not lose data, e.g. a layout
	// that consumed fewer bytes than the record declares.
	Warnings []string
	Consumed int
}

// Name is the display name: the variant's name, else m_Name, else "".
func (o *Object) Name() string {
	if o.Variant != nil {
		if n := o.Variant.Name(); n != "" {
			return n
		}
	}
	return o.Fields.Str("m_Name")
}

// Raw returns the exact backing bytes of the record.
func (o *Object) Raw() []byte { return o.Container.Raw(o.Record) }

// Typed reports objects that carry decoded fields.
func (o *Object) Typed() bool {
	return o.Status == StatusOK || o.Status == StatusPartial
}

// ClassName is the class name, preferring the inline layout's name for
// classes without a table entry.
func (o *Object) ClassName() string {
	if !o.ClassID.Known() && o.Schema != nil && o.Schema.Name != "" {
		return o.Schema.Name
	}
	return o.ClassID.String()
}

// ToMap returns the decoded fields as plain maps and slices.
func (o *Object) ToMap() map[string]any {
	if o.Fields == nil {
		return map[string]any{}
	}
	return o.Fields.Map()
}

// Decoder turns records into objects using a schema registry.
type Decoder struct {
	registry *schema.Registry
}

func NewDecoder(r *schema.Registry) *Decoder {
	if r == nil {
		r = schema.NewRegistry()
	}
	return &Decoder{registry: r}
}

// Decode reads one record. Failures are carried on the object; the error
// is never fatal to sibling records.
func (d *Decoder) Decode(c *serialized.Container, rec serialized.ObjectRecord) *Object {
	o := &Object{
		Container: c,
		Record:    rec,
		PathID:    rec.PathID,
		ClassID:   rec.ClassID,
		Version:   c.Engine,
	}
	if !rec.Readable {
		o.Status = StatusUnreadable
		o.Err = &ObjectBoundsError{Container: c.Name, PathID: rec.PathID, Offset: rec.Offset, Size: rec.Size, Reason: rec.Problem}
		o.Variant = &Opaque{ClassID: rec.ClassID, Offset: rec.Offset, Size: rec.Size}
		return o
	}

	var tree *serialized.TypeTree
	if t := c.TypeOf(rec); t != nil {
		tree = t.Tree
	}
	s, ok := d.registry.Lookup(rec.ClassID, tree)
	if !ok {
		o.Status = StatusOpaque
		o.Err = &UnknownClassError{Container: c.Name, PathID: rec.PathID, ClassID: rec.ClassID}
		o.Variant = &Opaque{ClassID: rec.ClassID, Offset: rec.Offset, Size: rec.Size}
		return o
	}
	o.Schema = s

	cur := cursor.New(c.Data, c.Order).Window(int(rec.Offset), int(rec.End()))
	w := &walker{cur: cur, version: c.Engine, widePtr: c.PathIDSize() == 8}
	o.Fields = &Struct{Type: s.Name}
	w.blocks(s.Blocks, o.Fields)
	o.Consumed = cur.Pos() - int(rec.Offset)

	switch {
	case cur.Overrun():
		o.Status = StatusPartial
		o.Err = &ObjectBoundsError{Container: c.Name, PathID: rec.PathID, Offset: rec.Offset, Size: rec.Size,
			Reason: fmt.Sprintf("layout reads past the declared length after %q", w.last)}
	case w.gap:
		o.Status = StatusPartial
		o.Err = &SchemaVersionGapError{Container: c.Name, PathID: rec.PathID, ClassID: rec.ClassID, Version: c.Engine, After: w.last}
	case o.Consumed != int(rec.Size):
		o.Warnings = append(o.Warnings, fmt.Sprintf("consumed %d of %d bytes", o.Consumed, rec.Size))
	}

	if build, ok := typed[rec.ClassID]; ok {
		o.Variant = build(o.Fields)
	} else {
		o.Variant = &Generic{ClassID: rec.ClassID, TypeName: s.Name, Fields: o.Fields}
	}
	return o
}

// DecodeAll decodes every record of a container on up to workers
// goroutines. Output order follows the object table. A canceled context
// stops handing out records and returns ctx.Err() with no objects.
func (d *Decoder) DecodeAll(ctx context.Context, c *serialized.Container, workers int) ([]*Object, error) {
	out := make([]*Object, len(c.Objects))
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = d.Decode(c, c.Objects[i])
			}
		}()
	}

	var err error
send:
	for i := range c.Objects {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break send
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return out, nil
}
