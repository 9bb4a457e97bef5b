package mesh

import (
	"encoding/binary"
	"math"

	"unity-asset-reader/internal/unityver"
)

// format is the canonical vertex component encoding. The engine renumbered
// its enum twice; toFormat maps each era onto this one.
type format uint8

const (
	fmtFloat format = iota
	fmtFloat16
	fmtUNorm8
	fmtSNorm8
	fmtUNorm16
	fmtSNorm16
	fmtUInt8
	fmtSInt8
	fmtUInt16
	fmtSInt16
	fmtUInt32
	fmtSInt32
	fmtUnknown
)

var (
	legacyFormats = []format{fmtFloat, fmtFloat16, fmtUNorm8, fmtUInt8, fmtUInt32}
	formats2017   = []format{
		fmtFloat, fmtFloat16, fmtUNorm8, fmtUNorm8, fmtSNorm8, fmtUNorm16, fmtSNorm16,
		fmtUInt8, fmtSInt8, fmtUInt16, fmtSInt16, fmtUInt32, fmtSInt32,
	}
	formats2019 = []format{
		fmtFloat, fmtFloat16, fmtUNorm8, fmtSNorm8, fmtUNorm16, fmtSNorm16,
		fmtUInt8, fmtSInt8, fmtUInt16, fmtSInt16, fmtUInt32, fmtSInt32,
	}
)

func toFormat(raw uint8, v unityver.Version) format {
	table := legacyFormats
	switch {
	case v.Major >= 2019:
		table = formats2019
	case v.Major >= 2017:
		table = formats2017
	}
	if int(raw) < len(table) {
		return table[raw]
	}
	return fmtUnknown
}

func (f format) size() int {
	switch f {
	case fmtFloat, fmtUInt32, fmtSInt32:
		return 4
	case fmtFloat16, fmtUNorm16, fmtSNorm16, fmtUInt16, fmtSInt16:
		return 2
	case fmtUNorm8, fmtSNorm8, fmtUInt8, fmtSInt8:
		return 1
	}
	return 0
}

// read decodes one component at b[0:f.size()] as float32.
func (f format) read(b []byte, order binary.ByteOrder) float32 {
	switch f {
	case fmtFloat:
		return math.Float32frombits(order.Uint32(b))
	case fmtFloat16:
		return halfToFloat(order.Uint16(b))
	case fmtUNorm8:
		return float32(b[0]) / 255
	case fmtSNorm8:
		return max(float32(int8(b[0]))/127, -1)
	case fmtUNorm16:
		return float32(order.Uint16(b)) / 65535
	case fmtSNorm16:
		return max(float32(int16(order.Uint16(b)))/32767, -1)
	case fmtUInt8:
		return float32(b[0])
	case fmtSInt8:
		return float32(int8(b[0]))
	case fmtUInt16:
		return float32(order.Uint16(b))
	case fmtSInt16:
		return float32(int16(order.Uint16(b)))
	case fmtUInt32:
		return float32(order.Uint32(b))
	case fmtSInt32:
		return float32(int32(order.Uint32(b)))
	}
	return 0
}

// halfToFloat widens an IEEE 754 binary16 value.
func halfToFloat(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: renormalize.
		e := uint32(127 - 15 + 1)
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3ff
		return math.Float32frombits(sign | e<<23 | frac<<13)
	case 0x1f:
		return math.Float32frombits(sign | 0xff<<23 | frac<<13)
	}
	return math.Float32frombits(sign | (exp+127-15)<<23 | frac<<13)
}
