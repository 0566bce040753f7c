package fonts

import "testing"

func TestLoadKnownTokens(t *testing.T) {
	for _, token := range []string{"default", "oswald", "cinzel", "bebas-neue", "righteous", "orbitron", "caveat"} {
		for _, w := range []Weight{Regular, Medium, Bold, Black} {
			data, err := Load(token, w)
			if err != nil {
				t.Fatalf("Load(%s, %s): %v", token, w, err)
			}
			if len(data) == 0 {
				t.Fatalf("Load(%s, %s) returned empty font", token, w)
			}
		}
	}
}

func TestLoadUnknownToken(t *testing.T) {
	if _, err := Load("comic-sans", Regular); err == nil {
		t.Fatalf("expected error for unknown token")
	}
	if len(Fallback()) == 0 {
		t.Fatalf("fallback font must not be empty")
	}
}
