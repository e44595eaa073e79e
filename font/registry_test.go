package font

import "testing"

func TestNewRegistryPreregistersHelvetica(t *testing.T) {
	reg := NewRegistry()
	r, ok := reg.Lookup("Helvetica")
	if !ok {
		t.Fatal("Helvetica not registered by default")
	}
	if r.ID != 0 {
		t.Errorf("Helvetica ID = %d, want 0", r.ID)
	}
	if !r.Stock {
		t.Error("Helvetica should be a stock font")
	}
	if r.State != StateRegistered {
		t.Errorf("Helvetica initial state = %v, want StateRegistered", r.State)
	}
}

func TestRegisterAssignsDenseIDs(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Register("CustomA", []byte("fontbytesA"))
	if err != nil {
		t.Fatalf("Register CustomA: %v", err)
	}
	b, err := reg.Register("CustomB", []byte("fontbytesB"))
	if err != nil {
		t.Fatalf("Register CustomB: %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("got IDs %d, %d, want 1, 2 (Helvetica occupies 0)", a.ID, b.ID)
	}

	// Re-registering the same name returns the existing registration.
	again, err := reg.Register("CustomA", []byte("ignored"))
	if err != nil {
		t.Fatalf("re-register CustomA: %v", err)
	}
	if again != a {
		t.Error("re-registering an existing name should return the same *Registration")
	}
}

func TestUseAdvancesState(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Register("Body", []byte("fontbytes")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r, _ := reg.Lookup("Body")
	if r.State != StateRegistered {
		t.Fatalf("initial state = %v, want StateRegistered", r.State)
	}

	if err := reg.Use("Body", []rune("hi")); err != nil {
		t.Fatalf("Use: %v", err)
	}
	if r.State != StateUsed {
		t.Errorf("state after Use = %v, want StateUsed", r.State)
	}
	if !r.UsedChars['h'] || !r.UsedChars['i'] {
		t.Errorf("UsedChars = %v, want h and i set", r.UsedChars)
	}
}

func TestUseDropsCodePointsAboveMax(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Body", []byte("fontbytes"))

	tooHigh := rune(maxUsableCodePoint + 1)
	if err := reg.Use("Body", []rune{tooHigh}); err != nil {
		t.Fatalf("Use: %v", err)
	}
	r, _ := reg.Lookup("Body")
	if len(r.UsedChars) != 0 {
		t.Errorf("UsedChars = %v, want empty (code point dropped)", r.UsedChars)
	}
	if r.State != StateRegistered {
		t.Errorf("state = %v, want StateRegistered (nothing recorded)", r.State)
	}
}

func TestUseUnknownFontErrors(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Use("NoSuchFont", []rune("x")); err == nil {
		t.Fatal("Use on an unregistered font should error")
	}
}

func TestRegisterEnforcesMaxFonts(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < MaxFonts-1; i++ { // Helvetica already occupies one slot
		name := string(rune('a')) + string(rune(i))
		if _, err := reg.Register(name, []byte("x")); err != nil {
			t.Fatalf("Register #%d: %v", i, err)
		}
	}
	if _, err := reg.Register("one-too-many", []byte("x")); err == nil {
		t.Fatal("expected an error after exceeding MaxFonts")
	}
}
