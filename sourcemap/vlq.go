package sourcemap

// Signed base64 VLQ as used by the Source Map v3 "mappings" field: the value
// is sign-folded into its low bit, then emitted 5 bits at a time, least
// significant chunk first, with bit 5 as the continuation bit on all but the
// last digit.

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Reverse [256]int8

func init() {
	for i := range base64Reverse {
		base64Reverse[i] = -1
	}
	for i := 0; i < len(base64Alphabet); i++ {
		base64Reverse[base64Alphabet[i]] = int8(i)
	}
}

func appendVLQ(dst []byte, v int) []byte {
	if v < 0 {
		v = (-v << 1) | 1
	} else {
		v <<= 1
	}
	for v >= 32 {
		dst = append(dst, base64Alphabet[32|(v&31)])
		v >>= 5
	}
	return append(dst, base64Alphabet[v])
}

// decodeVLQ reads one value from the front of s and returns it along with
// the number of bytes consumed. A leading non-VLQ byte yields (0, 0).
func decodeVLQ(s string) (value, n int) {
	v, shift := 0, uint(0)
	for n < len(s) {
		digit := base64Reverse[s[n]]
		if digit < 0 {
			return 0, 0
		}
		n++
		v |= int(digit&31) << shift
		if digit&32 == 0 {
			if v&1 != 0 {
				return -(v >> 1), n
			}
			return v >> 1, n
		}
		shift += 5
	}
	return 0, 0
}
