package envutil

import (
	"testing"
	"time"
)

func TestFirstFallsBack(t *testing.T) {
	t.Setenv("VS_TEST_PRIMARY", " ")
	t.Setenv("VS_TEST_FALLBACK", " /myapp ")

	value, ok := First("VS_TEST_PRIMARY", "VS_TEST_FALLBACK")
	if !ok || value != "/myapp" {
		t.Fatalf("First() = %q, %v", value, ok)
	}
	if _, ok := First("VS_TEST_UNSET_KEY"); ok {
		t.Fatalf("expected unset key to report ok=false")
	}
}

func TestTypedLookups(t *testing.T) {
	t.Setenv("VS_TEST_INT", "12")
	t.Setenv("VS_TEST_DURATION", "1500ms")
	t.Setenv("VS_TEST_BOOL", "true")
	t.Setenv("VS_TEST_BAD", "many")

	if v, ok, err := Int("VS_TEST_INT"); err != nil || !ok || v != 12 {
		t.Fatalf("Int() = %d, %v, %v", v, ok, err)
	}
	if v, ok, err := Duration("VS_TEST_DURATION"); err != nil || !ok || v != 1500*time.Millisecond {
		t.Fatalf("Duration() = %s, %v, %v", v, ok, err)
	}
	if v, ok, err := Bool("VS_TEST_BOOL"); err != nil || !ok || !v {
		t.Fatalf("Bool() = %v, %v, %v", v, ok, err)
	}
	if _, ok, err := Int("VS_TEST_BAD"); err == nil || !ok {
		t.Fatalf("expected parse error, got ok=%v err=%v", ok, err)
	}
}
