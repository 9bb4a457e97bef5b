// Package catalog exports a loaded batch into a SQLite file so other tools
// can query objects, externals and pointer resolutions without reparsing.
package catalog

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/RoaringBitmap/roaring"
	_ "modernc.org/sqlite"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/graph"
)

const schemaSQL = `
	CREATE TABLE containers (
		id INTEGER PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		format INTEGER NOT NULL,
		unity_version TEXT NOT NULL,
		big_endian INTEGER NOT NULL,
		objects INTEGER NOT NULL
	);
	CREATE TABLE objects (
		id INTEGER PRIMARY KEY,
		container_id INTEGER NOT NULL REFERENCES containers(id),
		path_id INTEGER NOT NULL,
		class_id INTEGER NOT NULL,
		class_name TEXT NOT NULL,
		name TEXT NOT NULL,
		byte_offset INTEGER NOT NULL,
		byte_size INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		UNIQUE (container_id, path_id)
	);
	CREATE TABLE externals (
		container_id INTEGER NOT NULL REFERENCES containers(id),
		file_index INTEGER NOT NULL,
		guid TEXT NOT NULL,
		path TEXT NOT NULL,
		resolved_container_id INTEGER
	);
	CREATE TABLE pointers (
		object_id INTEGER NOT NULL REFERENCES objects(id),
		field TEXT NOT NULL,
		file_id INTEGER NOT NULL,
		path_id INTEGER NOT NULL,
		state TEXT NOT NULL,
		target_object_id INTEGER
	);
	CREATE TABLE class_index (
		class_id INTEGER PRIMARY KEY,
		bitmap BLOB NOT NULL
	);
	CREATE INDEX objects_class ON objects(class_id);
`

// Write creates a fresh catalog at dbPath (an existing file is replaced).
func Write(ctx context.Context, dbPath string, b *graph.Batch) error {
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("catalog: remove %s: %w", dbPath, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("catalog: open %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("catalog: create tables: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := writeBatch(ctx, tx, b); err != nil {
		return err
	}
	return tx.Commit()
}

func writeBatch(ctx context.Context, tx *sql.Tx, b *graph.Batch) error {
	containerStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO containers (id, name, format, unity_version, big_endian, objects) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("catalog: prepare containers insert: %w", err)
	}
	defer func() { _ = containerStmt.Close() }()

	containerID := make(map[string]int64, len(b.Units))
	for i, u := range b.Units {
		c := u.Container
		id := int64(i + 1)
		containerID[c.Name] = id
		if _, err := containerStmt.ExecContext(ctx, id, c.Name, c.Header.Format, c.UnityVersion, c.Header.BigEndian, len(u.Objects)); err != nil {
			return fmt.Errorf("catalog: insert container %s: %w", c.Name, err)
		}
	}

	objStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO objects (id, container_id, path_id, class_id, class_name, name, byte_offset, byte_size, status, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("catalog: prepare objects insert: %w", err)
	}
	defer func() { _ = objStmt.Close() }()

	objectID := make(map[graph.Key]int64, b.Len())
	classes := make(map[classid.ID]*roaring.Bitmap)
	for i, o := range b.Objects() {
		id := int64(i + 1)
		k := b.Key(o)
		objectID[k] = id
		var errText any
		if o.Err != nil {
			errText = o.Err.Error()
		}
		if _, err := objStmt.ExecContext(ctx, id, containerID[k.Container], o.PathID, int32(o.ClassID), o.ClassName(), o.Name(),
			o.Record.Offset, o.Record.Size, o.Status.String(), errText); err != nil {
			return fmt.Errorf("catalog: insert object %s: %w", k, err)
		}
		if o.Typed() {
			bm, ok := classes[o.ClassID]
			if !ok {
				bm = roaring.New()
				classes[o.ClassID] = bm
			}
			bm.Add(uint32(id))
		}
	}

	extStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO externals (container_id, file_index, guid, path, resolved_container_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("catalog: prepare externals insert: %w", err)
	}
	defer func() { _ = extStmt.Close() }()

	for _, u := range b.Units {
		c := u.Container
		for i, ext := range c.Externals {
			var resolved any
			if target, ok := b.ExternalTarget(c.Name, int32(i+1)); ok {
				resolved = containerID[target]
			}
			if _, err := extStmt.ExecContext(ctx, containerID[c.Name], i+1, ext.GUID.String(), ext.PathName, resolved); err != nil {
				return fmt.Errorf("catalog: insert external %s of %s: %w", ext.PathName, c.Name, err)
			}
		}
	}

	ptrStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO pointers (object_id, field, file_id, path_id, state, target_object_id) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("catalog: prepare pointers insert: %w", err)
	}
	defer func() { _ = ptrStmt.Close() }()

	for _, o := range b.Typed() {
		from := objectID[b.Key(o)]
		for _, fp := range o.Fields.Pointers() {
			r := b.ResolveFrom(o, fp.Ptr)
			var target any
			if r.State == graph.StateResolved {
				target = objectID[r.Key]
			}
			if _, err := ptrStmt.ExecContext(ctx, from, fp.Path, fp.Ptr.FileID, fp.Ptr.PathID, r.State.String(), target); err != nil {
				return fmt.Errorf("catalog: insert pointer %s of %s: %w", fp.Path, b.Key(o), err)
			}
		}
	}

	classStmt, err := tx.PrepareContext(ctx, "INSERT INTO class_index (class_id, bitmap) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("catalog: prepare class_index insert: %w", err)
	}
	defer func() { _ = classStmt.Close() }()

	var buf bytes.Buffer
	for id, bm := range classes {
		buf.Reset()
		if _, err := bm.WriteTo(&buf); err != nil {
			return fmt.Errorf("catalog: serialize bitmap for class %d: %w", int32(id), err)
		}
		if _, err := classStmt.ExecContext(ctx, int32(id), buf.Bytes()); err != nil {
			return fmt.Errorf("catalog: insert class %d: %w", int32(id), err)
		}
	}
	return nil
}

// DB is a catalog opened for reading.
type DB struct {
	db *sql.DB
}

// Open opens an existing catalog read-only.
func Open(dbPath string) (*DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", dbPath, err)
	}
	db, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", dbPath, err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

var tables = map[string]bool{
	"containers": true, "objects": true, "externals": true, "pointers": true, "class_index": true,
}

// Count returns the number of rows in one of the catalog tables.
func (d *DB) Count(ctx context.Context, table string) (int, error) {
	if !tables[table] {
		return 0, fmt.Errorf("catalog: unknown table %q", table)
	}
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count %s: %w", table, err)
	}
	return n, nil
}

// ClassMembers returns the object row IDs of a class from the stored
// bitmap index.
func (d *DB) ClassMembers(ctx context.Context, id classid.ID) ([]uint32, error) {
	var blob []byte
	err := d.db.QueryRowContext(ctx, "SELECT bitmap FROM class_index WHERE class_id = ?", int32(id)).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: class %d: %w", int32(id), err)
	}
	rb := roaring.New()
	if err := rb.UnmarshalBinary(blob); err != nil {
		return nil, fmt.Errorf("catalog: decode bitmap for class %d: %w", int32(id), err)
	}
	return rb.ToArray(), nil
}

// Row is one object as stored in the catalog.
type Row struct {
	ID        int64
	Container string
	PathID    int64
	ClassName string
	Name      string
	Status    string
}

// Objects lists objects whose name contains the given text.
func (d *DB) Objects(ctx context.Context, nameLike string) ([]Row, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT o.id, c.name, o.path_id, o.class_name, o.name, o.status
		FROM objects o JOIN containers c ON c.id = o.container_id
		WHERE o.name LIKE '%' || ? || '%'
		ORDER BY o.id`, nameLike)
	if err != nil {
		return nil, fmt.Errorf("catalog: query objects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Container, &r.PathID, &r.ClassName, &r.Name, &r.Status); err != nil {
			return nil, fmt.Errorf("catalog: scan object: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
