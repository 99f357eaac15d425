package airports

import "testing"

func TestLookupKnown(t *testing.T) {
	ap, ok := Lookup("oak")
	if !ok {
		t.Fatal("OAK should resolve")
	}
	if ap.Code != "OAK" || ap.City != "Oakland" {
		t.Fatalf("unexpected airport %+v", ap)
	}
	if ap.Lat == 0 || ap.Lon == 0 {
		t.Fatalf("missing coordinates: %+v", ap)
	}
}

func TestLookupUnknown(t *testing.T) {
	ap, ok := Lookup(" xyz ")
	if ok {
		t.Fatal("XYZ should not resolve")
	}
	if ap.Code != "XYZ" {
		t.Fatalf("unknown lookup should keep the normalized code, got %q", ap.Code)
	}
}
