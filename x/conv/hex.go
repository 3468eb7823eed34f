package conv

const hexd = "0123456789ABCDEF"

// AppendHexBytes appends data as space-separated two-digit uppercase hex.
// No allocations beyond dst growth; no fmt dependency.
func AppendHexBytes(dst, data []byte) []byte {
	for i, b := range data {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = append(dst, hexd[b>>4], hexd[b&0xF])
	}
	return dst
}
