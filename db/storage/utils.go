package storage

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// PrefixRange returns the [start, limit) range covering every key with the given prefix.
func PrefixRange(prefix []byte) (start, limit []byte) {
	start = copyBytes(prefix)
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] < 0xff {
			limit = copyBytes(prefix[:i+1])
			limit[i]++
			return
		}
	}
	return start, nil
}
