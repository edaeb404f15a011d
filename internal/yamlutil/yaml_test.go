package yamlutil

import (
	"errors"
	"strings"
	"testing"
)

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("decodes mapping", func(t *testing.T) {
		t.Parallel()
		var m map[string]any
		if err := Unmarshal([]byte("title: Hello\ncount: 3\n"), &m); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if m["title"] != "Hello" {
			t.Errorf("title = %v, want Hello", m["title"])
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		var m map[string]any
		if err := Unmarshal(nil, &m); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("err = %v, want ErrEmptyInput", err)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()
		if err := Unmarshal([]byte("a: 1"), nil); !errors.Is(err, ErrNilDestination) {
			t.Errorf("err = %v, want ErrNilDestination", err)
		}
	})

	t.Run("oversized input", func(t *testing.T) {
		t.Parallel()
		var m map[string]any
		big := []byte("a: " + strings.Repeat("x", MaxInputSize))
		if err := Unmarshal(big, &m); !errors.Is(err, ErrInputTooLarge) {
			t.Errorf("err = %v, want ErrInputTooLarge", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		var m map[string]any
		if err := Unmarshal([]byte(":\n :bad"), &m); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})
}
