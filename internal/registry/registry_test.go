package registry

import (
	"context"
	"errors"
	"testing"
)

func TestResolveRegisteredFunctions(t *testing.T) {
	reg := New()
	reg.RegisterAlgorithm("iscc:audio_code_64", func(ctx context.Context, filePath string) (string, error) {
		return "ff00ff00ff00ff00", nil
	})
	reg.RegisterInstaller("fma:install", func(ctx context.Context, targetDir string, samples int, seed int64) error {
		return nil
	})
	reg.RegisterTransform("audio:compress_md", func(ctx context.Context, inputFile, outputFile string, params []any) error {
		return nil
	})

	fn, err := reg.Algorithm("iscc:audio_code_64")
	if err != nil {
		t.Fatalf("Algorithm failed: %v", err)
	}
	code, err := fn(context.Background(), "sample.mp3")
	if err != nil || code != "ff00ff00ff00ff00" {
		t.Errorf("resolved function returned %q, %v", code, err)
	}

	if _, err := reg.Installer("fma:install"); err != nil {
		t.Errorf("Installer failed: %v", err)
	}
	if _, err := reg.Transform("audio:compress_md"); err != nil {
		t.Errorf("Transform failed: %v", err)
	}
}

func TestResolveUnregistered(t *testing.T) {
	reg := New()

	tests := []struct {
		name    string
		resolve func() error
	}{
		{"algorithm", func() error { _, err := reg.Algorithm("iscc:missing"); return err }},
		{"installer", func() error { _, err := reg.Installer("iscc:missing"); return err }},
		{"transform", func() error { _, err := reg.Transform("iscc:missing"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.resolve()
			if !errors.Is(err, ErrNotRegistered) {
				t.Errorf("expected ErrNotRegistered, got %v", err)
			}
		})
	}
}

func TestRegisterReplacesExisting(t *testing.T) {
	reg := New()
	reg.RegisterAlgorithm("iscc:audio_code_64", func(ctx context.Context, filePath string) (string, error) {
		return "old", nil
	})
	reg.RegisterAlgorithm("iscc:audio_code_64", func(ctx context.Context, filePath string) (string, error) {
		return "new", nil
	})

	fn, err := reg.Algorithm("iscc:audio_code_64")
	if err != nil {
		t.Fatal(err)
	}
	if code, _ := fn(context.Background(), ""); code != "new" {
		t.Errorf("expected replacement to win, got %q", code)
	}
}

func TestAlgorithmIdentsSorted(t *testing.T) {
	reg := New()
	for _, ident := range []string{"iscc:video_code_64", "iscc:audio_code_64", "iscc:image_code_64"} {
		reg.RegisterAlgorithm(ident, func(ctx context.Context, filePath string) (string, error) {
			return "", nil
		})
	}

	got := reg.AlgorithmIdents()
	want := []string{"iscc:audio_code_64", "iscc:image_code_64", "iscc:video_code_64"}
	if len(got) != len(want) {
		t.Fatalf("got %d idents, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ident[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
