package cpu

import "github.com/kensho-dmg/dmgcore/internal/bit"

// flag is one of the four bits packed into the high nibble of F.
type flag uint8

const (
	flagZ flag = 0x80
	flagN flag = 0x40
	flagH flag = 0x20
	flagC flag = 0x10
)

// registers is the SM83 register bank: eight 8-bit registers plus SP/PC.
// The four pairs (B,C), (D,E), (H,L), (A,F) are exposed as big-endian
// 16-bit views.
type registers struct {
	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8
	sp   uint16
	pc   uint16
}

func pair(high, low uint8) uint16 {
	return bit.Combine(high, low)
}

func splitPair(v uint16) (high, low uint8) {
	return bit.High(v), bit.Low(v)
}

func (r *registers) af() uint16 { return pair(r.a, r.f&0xF0) }
func (r *registers) bc() uint16 { return pair(r.b, r.c) }
func (r *registers) de() uint16 { return pair(r.d, r.e) }
func (r *registers) hl() uint16 { return pair(r.h, r.l) }

func (r *registers) setAF(v uint16) { r.a, r.f = splitPair(v); r.f &= 0xF0 }
func (r *registers) setBC(v uint16) { r.b, r.c = splitPair(v) }
func (r *registers) setDE(v uint16) { r.d, r.e = splitPair(v) }
func (r *registers) setHL(v uint16) { r.h, r.l = splitPair(v) }

func (r *registers) flag(f flag) bool { return r.f&uint8(f) != 0 }

func (r *registers) setFlag(f flag, on bool) {
	if on {
		r.f |= uint8(f)
	} else {
		r.f &^= uint8(f)
	}
	r.f &= 0xF0
}
