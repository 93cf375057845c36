package suuid

// Well-known namespace UUIDs from RFC 4122 Appendix C.
var (
	NamespaceDNS  = MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	NamespaceURL  = MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")
	NamespaceOID  = MustParse("6ba7b812-9dad-11d1-80b4-00c04fd430c8")
	NamespaceX500 = MustParse("6ba7b814-9dad-11d1-80b4-00c04fd430c8")
)

// NamespaceByName maps the short names "dns", "url", "oid" and "x500" to
// their namespace UUID.
func NamespaceByName(name string) (UUID, bool) {
	switch name {
	case "dns":
		return NamespaceDNS, true
	case "url":
		return NamespaceURL, true
	case "oid":
		return NamespaceOID, true
	case "x500":
		return NamespaceX500, true
	}
	return Nil, false
}
