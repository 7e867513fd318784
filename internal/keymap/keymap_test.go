package keymap

import (
	"testing"

	"github.com/ehrlich-b/go-rawinput/internal/evdevio"
)

func TestBuildRejectsEmptyLayout(t *testing.T) {
	if _, err := Build(Names{}); err == nil {
		t.Fatal("expected error for empty layout name")
	}
}

func TestTranslateLowercase(t *testing.T) {
	st, err := Build(DefaultNames)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ke := st.Translate(evdevio.KEY_A, true, 1, 1000)
	if ke.TextString() != "a" {
		t.Errorf("TextString() = %q, want %q", ke.TextString(), "a")
	}
	if !ke.Down {
		t.Error("expected Down = true")
	}
}

func TestTranslateShiftUppercases(t *testing.T) {
	st, err := Build(DefaultNames)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	st.Translate(evdevio.KEY_LEFTSHIFT, true, 1, 1000)
	ke := st.Translate(evdevio.KEY_A, true, 1, 1001)
	if ke.TextString() != "A" {
		t.Errorf("TextString() = %q, want %q", ke.TextString(), "A")
	}
	if ke.Mods&0x1 == 0 {
		t.Error("expected ModShift bit set")
	}

	st.Translate(evdevio.KEY_LEFTSHIFT, false, 1, 1002)
	ke = st.Translate(evdevio.KEY_A, true, 1, 1003)
	if ke.TextString() != "a" {
		t.Errorf("TextString() after shift release = %q, want %q", ke.TextString(), "a")
	}
}

func TestTranslateKeyUpProducesNoText(t *testing.T) {
	st, err := Build(DefaultNames)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ke := st.Translate(evdevio.KEY_A, false, 1, 1000)
	if ke.TextLen != 0 {
		t.Errorf("expected no text on key-up, got %q", ke.TextString())
	}
}

func TestRightAndLeftModifierOr(t *testing.T) {
	st, err := Build(DefaultNames)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	st.Translate(evdevio.KEY_RIGHTCTRL, true, 1, 1000)
	ke := st.Translate(evdevio.KEY_A, true, 1, 1001)
	if ke.Mods&0x2 == 0 {
		t.Error("expected ModControl set from right ctrl")
	}
}
