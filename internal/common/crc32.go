package common

import (
	"hash/crc32"
)

// ArgvSeparator is placed between concatenated argv entries before hashing,
// so that ["-I", "foo"] and ["-Ifoo"] never collide.
const ArgvSeparator = byte(0)

// CRC32OfArgv computes a CRC-32 (IEEE) over the UTF-8 bytes of argv, joined
// by a single separator byte between entries. Two equal argv slices always
// produce the same CRC; this is the identity the build cache compares.
func CRC32OfArgv(argv []string) uint32 {
	hasher := crc32.NewIEEE()
	for i, arg := range argv {
		if i > 0 {
			_, _ = hasher.Write([]byte{ArgvSeparator})
		}
		_, _ = hasher.Write([]byte(arg))
	}
	return hasher.Sum32()
}
