package text

import "testing"

func TestLookupFamily(t *testing.T) {
	tests := []struct {
		name string
		want *Family
		ok   bool
	}{
		{"helvetica", Sans, true},
		{"Arial", Sans, true},
		{"times", Serif, true},
		{"Courier", Mono, true},
		{"'Comic Sans', courier, serif", Mono, true},
		{"wingdings", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		got, ok := LookupFamily(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LookupFamily(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFamilyFontParsedOnce(t *testing.T) {
	a, err := Sans.Font(Bold)
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	b, err := Sans.Font(Bold)
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	if a != b {
		t.Error("expected the same parsed font on repeated lookup")
	}
}

func TestWidth(t *testing.T) {
	face, err := Sans.NewFace(Regular, 12)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	short := Width(face, "ab")
	long := Width(face, "abcdef")
	if short <= 0 || long <= short {
		t.Errorf("Width: short=%d long=%d, want 0 < short < long", short, long)
	}
	if got := Width(face, "ab\nabcdef\nabc"); got != long {
		t.Errorf("multi-line Width = %d, want widest line %d", got, long)
	}
	if got := Width(face, ""); got != 0 {
		t.Errorf("Width(\"\") = %d, want 0", got)
	}
}

func TestExtentsGrowWithSize(t *testing.T) {
	small, err := Mono.NewFace(Regular, 8)
	if err != nil {
		t.Fatal(err)
	}
	big, err := Mono.NewFace(Regular, 36)
	if err != nil {
		t.Fatal(err)
	}
	sa, sd := Extents(small)
	ba, bd := Extents(big)
	if sa <= 0 || ba <= sa || bd < sd {
		t.Errorf("Extents small=(%d,%d) big=(%d,%d)", sa, sd, ba, bd)
	}
}
