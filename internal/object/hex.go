package object

import (
	"strings"

	"unity-asset-reader/internal/cursor"
)

// HexPreview renders up to n leading bytes of the record as rows of 16
// upper-case hex pairs. Used as the fallback view for opaque objects.
func HexPreview(o *Object, n int) string {
	if !o.Record.Readable {
		return ""
	}
	cur := cursor.New(o.Container.Data, o.Container.Order).Window(int(o.Record.Offset), int(o.Record.End()))
	hex := cur.PeekHex(n)

	var b strings.Builder
	for i := 0; i < len(hex); i += 2 {
		if i > 0 {
			if i%32 == 0 {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(hex[i : i+2])
	}
	return b.String()
}
