package main

// The legacy embedding host exchanged bullets as a flat buffer of
// doubles, 7 per record, in this fixed field order. Everything inside
// the server works on the Bullet struct; this file is the only place
// that knows the positional layout.
const (
	bufX0 = iota
	bufY0
	bufX1
	bufY1
	bufActive
	bufOwner
	bufIndex

	BulletFieldCount = 7
)

// DecodeBullets parses a flat 7-field-per-record buffer into bullets.
// Trailing values short of a full record are ignored. Activity is
// boolean-as-numeric: any non-zero value counts as active.
func DecodeBullets(buf []float64) []Bullet {
	n := len(buf) / BulletFieldCount
	bullets := make([]Bullet, 0, n)
	for i := 0; i < n; i++ {
		rec := buf[i*BulletFieldCount:]
		bullets = append(bullets, Bullet{
			X0:     rec[bufX0],
			Y0:     rec[bufY0],
			X1:     rec[bufX1],
			Y1:     rec[bufY1],
			Active: rec[bufActive] != 0,
			Owner:  int(rec[bufOwner]),
			Index:  int(rec[bufIndex]),
		})
	}
	return bullets
}

// EncodeBullets appends bullets to buf in the flat 7-field layout and
// returns the extended slice.
func EncodeBullets(bullets []Bullet, buf []float64) []float64 {
	for i := range bullets {
		b := &bullets[i]
		active := 0.0
		if b.Active {
			active = 1.0
		}
		buf = append(buf,
			b.X0, b.Y0, b.X1, b.Y1,
			active, float64(b.Owner), float64(b.Index),
		)
	}
	return buf
}

// CollideBuffers reproduces the legacy flat-buffer call contract on
// top of the structured detector: decode the input buffer, run one
// detection pass, and write interleaved (indexA, indexB) values into
// out. The caller sizes out for the worst case (2 values per input
// bullet); writing stops when out is full.
//
// Unlike the legacy call, which returned a constant status and left
// the caller to infer how much of the buffer was valid, the return
// value is the number of values written.
func CollideBuffers(in []float64, out []float64) int {
	bullets := DecodeBullets(in)
	pairs := Collide(bullets)

	written := 0
	for _, p := range pairs {
		if written+2 > len(out) {
			break
		}
		out[written] = float64(p.A)
		out[written+1] = float64(p.B)
		written += 2
	}
	return written
}
