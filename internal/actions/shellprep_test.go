package actions

import "testing"

func TestSubstituteValue(t *testing.T) {
	if got := substituteValue("set {value}", false, 42); got != "set {value}" {
		t.Fatalf("expected no substitution without a value, got %q", got)
	}
	if got := substituteValue("set {value}", true, 42); got != "set 42" {
		t.Fatalf("got %q", got)
	}
}

func TestFixCurlAlias(t *testing.T) {
	if got := fixCurlAlias("curl http://x"); got != "curl.exe http://x" {
		t.Fatalf("got %q", got)
	}
	if got := fixCurlAlias("curl\t-o f http://x"); got != "curl.exe\t-o f http://x" {
		t.Fatalf("got %q", got)
	}
	if got := fixCurlAlias("curlish http://x"); got != "curlish http://x" {
		t.Fatalf("expected passthrough for non-curl command, got %q", got)
	}
}
