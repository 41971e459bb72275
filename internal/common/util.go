package common

// WipeByteArray overwrites the slice with zeros. Use it on password
// buffers once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
