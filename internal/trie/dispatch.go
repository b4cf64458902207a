package trie

import "golang.org/x/sys/cpu"

// selectNext picks the Next implementation once at Freeze time and
// stores it as a function pointer; semantics are identical across
// variants. Go gives no portable way to hand-select SSE2/AVX2/NEON
// kernels, so both variants here are pure Go: nextScalar is a linear
// scan, nextSWAR packs several candidate keys into a uint64 and tests
// them with one branchless compare (SIMD-within-a-register), the
// standard software stand-in for a real vector compare when cross-arch
// assembly isn't an option. SWAR only pays off once a node's fan-out is
// wide enough to amortize the packing cost, so nextSWAR still falls back
// to nextScalar below that threshold; cpu.X86.HasAVX2 (AMD64) /
// cpu.ARM64.HasASIMD (ARM64) approximate which kernel the hardware makes
// worthwhile.
func selectNext() func(t *Trie, cur int32, key uint16) (int32, bool) {
	if wideCompareFast() {
		return nextSWAR
	}
	return nextScalar
}

func wideCompareFast() bool {
	if cpu.X86.HasAVX2 {
		return true
	}
	if cpu.ARM64.HasASIMD {
		return true
	}
	return false
}

const swarThreshold = 8

// nextScalar linearly scans a node's sorted key list. Correct for any
// fan-out; used as the baseline and as nextSWAR's fallback below
// swarThreshold.
func nextScalar(t *Trie, cur int32, key uint16) (int32, bool) {
	n := &t.nodes[cur]
	keys := t.nextKeys[n.nextOffset : n.nextOffset+n.numNexts]
	for i, k := range keys {
		if k == key {
			return cur + t.nextDiffs[n.nextOffset+int32(i)], true
		}
		if k > key {
			break // keys are sorted ascending; no match possible past here
		}
	}
	return 0, false
}

// nextSWAR packs up to 4 sorted keys at a time into a uint64 and compares
// them against a broadcast target in one word-width operation, the
// classic "SIMD within a register" trick: XOR each packed lane against
// the broadcast query, then a single haszero test (Knuth's
// 0x0001000100010001-style bit trick) reports whether any lane matched
// without a branch per lane. Falls back to nextScalar for a node with
// fewer than swarThreshold keys, and scans any residual tail shorter than
// one full register's worth of keys linearly.
func nextSWAR(t *Trie, cur int32, key uint16) (int32, bool) {
	n := &t.nodes[cur]
	if n.numNexts < swarThreshold {
		return nextScalar(t, cur, key)
	}
	keys := t.nextKeys[n.nextOffset : n.nextOffset+n.numNexts]
	broadcast := uint64(key) | uint64(key)<<16 | uint64(key)<<32 | uint64(key)<<48

	i := 0
	for ; i+4 <= len(keys); i += 4 {
		packed := uint64(keys[i]) | uint64(keys[i+1])<<16 | uint64(keys[i+2])<<32 | uint64(keys[i+3])<<48
		x := packed ^ broadcast
		if haszero(x) {
			for j := 0; j < 4; j++ {
				if keys[i+j] == key {
					return cur + t.nextDiffs[n.nextOffset+int32(i+j)], true
				}
			}
		}
		if keys[i+3] > key {
			return 0, false
		}
	}
	for ; i < len(keys); i++ {
		if keys[i] == key {
			return cur + t.nextDiffs[n.nextOffset+int32(i)], true
		}
		if keys[i] > key {
			break
		}
	}
	return 0, false
}

// haszero reports whether any of the four packed 16-bit lanes in x is
// zero, via Knuth's bit trick: (x - 0x0001...) & ~x & 0x8000... is
// nonzero exactly when some lane underflowed past zero into its high bit.
func haszero(x uint64) bool {
	const lo = 0x0001000100010001
	const hi = 0x8000800080008000
	return (x-lo)&^x&hi != 0
}
