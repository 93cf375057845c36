package suuid

import (
	"crypto/md5"
	"crypto/sha1"
	"hash"
)

// NewHash returns a name-based UUID: the first 16 bytes of
// h(space || data) with the version and RFC 4122 variant bits overwritten.
// The same space and data always produce the same UUID.
func NewHash(h hash.Hash, space UUID, data []byte, version Version) UUID {
	h.Reset()
	h.Write(space[:])
	h.Write(data)

	var uuid UUID
	copy(uuid[:], h.Sum(nil))
	setVersion(&uuid, version)
	return uuid
}

// NewMD5 returns a version 3 UUID for data in space.
func NewMD5(space UUID, data []byte) UUID {
	return NewHash(md5.New(), space, data, VersionNameBasedMD5)
}

// NewSHA1 returns a version 5 UUID for data in space.
func NewSHA1(space UUID, data []byte) UUID {
	return NewHash(sha1.New(), space, data, VersionNameBasedSHA1)
}

// NewV3 returns the version 3 UUID of the UTF-8 name in namespace.
func NewV3(namespace UUID, name string) UUID {
	return NewMD5(namespace, []byte(name))
}

// NewV5 returns the version 5 UUID of the UTF-8 name in namespace.
func NewV5(namespace UUID, name string) UUID {
	return NewSHA1(namespace, []byte(name))
}
