//go:build windows

package actions

import "testing"

func TestFKeyName(t *testing.T) {
	cases := map[int]string{1: "f1", 9: "f9", 10: "f10", 24: "f24"}
	for n, want := range cases {
		if got := fKeyName(n); got != want {
			t.Fatalf("fKeyName(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestNamedKeysHasAllFKeys(t *testing.T) {
	for i := 1; i <= 24; i++ {
		if _, ok := namedKeys[fKeyName(i)]; !ok {
			t.Fatalf("missing named key entry for %s", fKeyName(i))
		}
	}
}

func TestResolveKeyNamed(t *testing.T) {
	vk, ok := resolveKey("enter")
	if !ok || vk != namedKeys["enter"] {
		t.Fatalf("resolveKey(enter) = (%v,%v)", vk, ok)
	}
}

func TestResolveKeySingleChar(t *testing.T) {
	if _, ok := resolveKey("a"); !ok {
		t.Fatal("expected single ascii char to resolve")
	}
}

func TestResolveKeyEmpty(t *testing.T) {
	if _, ok := resolveKey(""); ok {
		t.Fatal("expected empty token to not resolve")
	}
}

func TestModifierOrder(t *testing.T) {
	want := []string{"ctrl", "alt", "shift", "win"}
	for i, m := range want {
		if modifierOrder[i] != m {
			t.Fatalf("modifierOrder[%d] = %q, want %q", i, modifierOrder[i], m)
		}
	}
}
