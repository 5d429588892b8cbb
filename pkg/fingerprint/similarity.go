package fingerprint

// Similarity returns the percentage (0-100) of characters a and b have in
// common. The common count is built from the longest common substring,
// then recursively from the parts left and right of it. Two empty strings are
// 0% similar.
func Similarity(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return float64(commonChars(a, b)) * 2 * 100 / float64(total)
}

func commonChars(a, b string) int {
	posA, posB, size := longestCommon(a, b)
	if size == 0 {
		return 0
	}

	sum := size
	if posA > 0 && posB > 0 {
		sum += commonChars(a[:posA], b[:posB])
	}
	if posA+size < len(a) && posB+size < len(b) {
		sum += commonChars(a[posA+size:], b[posB+size:])
	}
	return sum
}

// longestCommon finds the first longest common substring, scanning a then b.
func longestCommon(a, b string) (posA, posB, size int) {
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			l := 0
			for i+l < len(a) && j+l < len(b) && a[i+l] == b[j+l] {
				l++
			}
			if l > size {
				posA, posB, size = i, j, l
			}
		}
	}
	return posA, posB, size
}
