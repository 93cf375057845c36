// Package suuid implements RFC 4122 Universally Unique Identifiers (UUIDs)
// in Go: parsing and formatting in every common representation, field
// decomposition, variant and version classification, and the four standard
// generation algorithms.
//
// Basic Usage:
//
//	// Generate a random (version 4) UUID
//	id, err := suuid.NewV4()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(id.String())
//
//	// Name-based UUIDs are deterministic
//	id = suuid.NewV5(suuid.NamespaceDNS, "python.org")
//
//	// Time-based UUID, optionally with a fixed node and clock sequence
//	id, err = suuid.NewV1(suuid.WithNode(0x0123456789ab))
//
//	// Parse a UUID from string; "urn:uuid:", braces and hyphens are optional
//	id, err = suuid.Parse("{f47ac10b-58cc-4372-a567-0e02b2c3d479}")
//
// Construction Forms:
//
// Besides Parse, a UUID can be built from exactly one of several
// representations through FromSource:
//
//	suuid.FromSource(suuid.Hex("f47ac10b58cc4372a5670e02b2c3d479"))
//	suuid.FromSource(suuid.Bytes(b))          // 16 big-endian bytes
//	suuid.FromSource(suuid.BytesLE(b))        // 16 bytes, Microsoft GUID order
//	suuid.FromSource(suuid.Fields{...})       // the six RFC 4122 fields
//	suuid.FromSource(suuid.Int{n})            // unsigned integer below 2^128
//
// WithVersion rejects a result that does not carry the expected version.
//
// Version 1 State:
//
// Version 1 UUIDs embed the node ID, taken from the first network interface
// with a hardware address or, failing that, a random multicast node. A
// Generator can keep its clock sequence in a StateStore so that restarts do
// not reuse it; implementations live under the store directory.
//
// Thread Safety:
//
// All operations are thread-safe. UUID values are immutable arrays and the
// default generator can be used concurrently from multiple goroutines.
// Separate Generators in one process keep separate clock sequences; give
// them distinct nodes or a shared StateStore.
package suuid
