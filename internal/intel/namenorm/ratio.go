package namenorm

// Ratio computes a Ratcliff/Obershelp edit-similarity in [0,1]:
// twice the total length of matching blocks over the combined length.
func Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	m := matchingChars([]byte(a), []byte(b))
	return 2.0 * float64(m) / float64(len(a)+len(b))
}

// matchingChars sums the longest common substring and recurses into the
// unmatched regions on each side of it.
func matchingChars(a, b []byte) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingChars(a[:ai], b[:bi])
	total += matchingChars(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock finds the leftmost longest common substring of a and b.
func longestCommonBlock(a, b []byte) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// prev[j] = length of the common suffix of a[:i] and b[:j].
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}
