package scan

import "bytes"

// binarySniffLen bounds how much of a file the binary check inspects.
const binarySniffLen = 8192

// isBinary reports whether content looks like a binary file. Assembly
// sources are ASCII-compatible text; a NUL byte in the leading chunk is a
// reliable tell for object files and other build leftovers.
func isBinary(content []byte) bool {
	sniff := content
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}
