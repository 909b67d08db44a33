package skiplist

// lcg is the linear congruential generator the reference implementation
// uses for level assignment: r[i] = (a*r[i-1] + c) mod m, with the RtlUniform
// constants from the Windows Native API. A fixed algorithm (not math/rand)
// is required so that two lists seeded identically produce identical height
// sequences — the deterministic-height property the test suite pins.
//
// Unlike the reference implementation, which hard-codes one process-global
// seed shared by every list, each List owns its own lcg instance. Seeding it
// with the same constant on every construction keeps per-list determinism
// (what the tests need) without the original's "every list in the process
// draws the same sequence" accident.
type lcg struct {
	seed uint32
}

const (
	lcgM = 2147483647 // 2^31 - 1
	lcgA = 2147483629
	lcgC = 2147483587
)

func newLCG(seed uint32) *lcg {
	return &lcg{seed: seed}
}

func (r *lcg) next() uint32 {
	r.seed = uint32((uint64(r.seed)*lcgA + lcgC) % lcgM)
	return r.seed
}
