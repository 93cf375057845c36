package suuid

import (
	"crypto/sha256"
	"testing"
)

func TestNewV3V5_KnownValues(t *testing.T) {
	tests := []struct {
		name    string
		got     UUID
		want    string
		wantVer Version
	}{
		{"v5 dns python.org", NewV5(NamespaceDNS, "python.org"), "886313e1-3b8a-5372-9b90-0c9aee199e5d", VersionNameBasedSHA1},
		{"v3 dns python.org", NewV3(NamespaceDNS, "python.org"), "6fa459ea-ee8a-3ca4-894e-db77e160355e", VersionNameBasedMD5},
		{"v5 url", NewV5(NamespaceURL, "https://example.com"), "4fd35a71-71ef-5a55-a9d9-aa75c889a6d0", VersionNameBasedSHA1},
		{"v3 oid", NewV3(NamespaceOID, "1.3.6.1"), "dd1a1cef-13d5-368a-ad82-eca71acd4cd1", VersionNameBasedMD5},
		{"v5 x500", NewV5(NamespaceX500, "cn=John"), "1713550e-4d56-5817-bce4-d5dac105f99d", VersionNameBasedSHA1},
		{"v5 utf-8 name", NewV5(NamespaceDNS, "日本"), "c545f148-2f1e-5792-8646-ecd64f3bb671", VersionNameBasedSHA1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.String(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if tt.got.Version() != tt.wantVer {
				t.Errorf("Version() = %v, want %v", tt.got.Version(), tt.wantVer)
			}
			if tt.got.Variant() != VariantRFC4122 {
				t.Errorf("Variant() = %v, want %v", tt.got.Variant(), VariantRFC4122)
			}
		})
	}
}

func TestNewV5_Deterministic(t *testing.T) {
	first := NewV5(NamespaceDNS, "python.org")
	for i := 0; i < 10; i++ {
		if got := NewV5(NamespaceDNS, "python.org"); got != first {
			t.Fatalf("NewV5() = %v on call %d, want %v", got, i, first)
		}
	}
	if NewV5(NamespaceURL, "python.org") == first {
		t.Error("NewV5() ignored the namespace")
	}
}

func TestNewHash_LongDigest(t *testing.T) {
	uuid := NewHash(sha256.New(), NamespaceDNS, []byte("python.org"), VersionNameBasedSHA1)
	if uuid.Version() != VersionNameBasedSHA1 || uuid.Variant() != VariantRFC4122 {
		t.Errorf("NewHash() = %v, version %v variant %v", uuid, uuid.Version(), uuid.Variant())
	}
}

func TestNamespaceByName(t *testing.T) {
	for name, want := range map[string]UUID{
		"dns":  NamespaceDNS,
		"url":  NamespaceURL,
		"oid":  NamespaceOID,
		"x500": NamespaceX500,
	} {
		got, ok := NamespaceByName(name)
		if !ok || got != want {
			t.Errorf("NamespaceByName(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := NamespaceByName("ldap"); ok {
		t.Error("NamespaceByName(ldap) found a namespace")
	}
}
