package texture

import (
	"path"
	"strings"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/graph"
)

// Index maps lowercase texture names to objects in a batch.
// A Texture2D wins over a TextAsset of the same name.
type Index struct {
	entries map[string]graph.Key
	classes map[graph.Key]classid.ID
}

// BuildIndex lists every decoded Texture2D and TextAsset in the batch.
func BuildIndex(b *graph.Batch) *Index {
	idx := &Index{
		entries: make(map[string]graph.Key),
		classes: make(map[graph.Key]classid.ID),
	}
	for _, o := range b.OfClass(classid.Texture2D, classid.TextAsset) {
		name := strings.ToLower(o.Name())
		if name == "" {
			continue
		}
		k := b.Key(o)
		existing, exists := idx.entries[name]
		if !exists || (o.ClassID == classid.Texture2D && idx.classes[existing] == classid.TextAsset) {
			idx.entries[name] = k
			idx.classes[k] = o.ClassID
		}
	}
	return idx
}

// ResolveKey returns the object for a texture name, or false. Directory
// prefixes and extensions are ignored ("UI\\icons\\gem.png" finds "gem").
func (idx *Index) ResolveKey(texName string) (graph.Key, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := path.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))

	if k, ok := idx.entries[stem]; ok {
		return k, true
	}
	k, ok := idx.entries[strings.ToLower(base)]
	return k, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
