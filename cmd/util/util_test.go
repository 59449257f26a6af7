package util

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("Expected lines of at most %d characters, got %d: %q", Wrap, len(line), line)
		}
	}
	if got := WrapString("short text"); got != "short text" {
		t.Errorf("Expected short text to stay on one line, got %q", got)
	}
}

func TestGetCodec(t *testing.T) {
	defer viper.Reset()

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"auto", "", false},
		{"", "", false},
		{"proto", "proto", false},
		{"binary", "binary", false},
		{"json", "json", false},
		{"gob", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			viper.Set("codec", tc.name)
			codec, err := GetCodec()
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for codec %q", tc.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if tc.want == "" {
				if codec != nil {
					t.Errorf("Expected no codec, got %s", codec.Name())
				}
				return
			}
			if codec == nil || codec.Name() != tc.want {
				t.Errorf("Expected codec %s, got %v", tc.want, codec)
			}
		})
	}
}

func TestGetFsConfinesToDataDir(t *testing.T) {
	defer viper.Reset()

	dir := t.TempDir()
	viper.Set("data-dir", dir)

	fs := GetFs()
	if err := afero.WriteFile(fs, "/note.txt", []byte("hi"), 0o644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	data, err := afero.ReadFile(afero.NewOsFs(), dir+"/note.txt")
	if err != nil {
		t.Fatalf("Expected file inside data dir, got %v", err)
	}
	if string(data) != "hi" {
		t.Errorf("Expected hi, got %q", data)
	}

	got, err := ReadInput(fs, "note.txt")
	if err != nil || string(got) != "hi" {
		t.Errorf("Expected to read hi, got %q (err=%v)", got, err)
	}
	if _, err := ReadInput(fs, "missing.txt"); err == nil {
		t.Errorf("Expected error for missing input")
	}
}
