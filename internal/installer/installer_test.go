package installer

import (
	"errors"
	"testing"
)

func withLookPath(t *testing.T, available ...string) {
	t.Helper()
	set := make(map[string]bool)
	for _, a := range available {
		set[a] = true
	}
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if set[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestDetectPrefersFirstManager(t *testing.T) {
	withLookPath(t, "dnf", "pacman")
	if got := detectFor("linux"); got != "dnf" {
		t.Fatalf("expected dnf, got %q", got)
	}
	if got := detectFor("plan9"); got != "" {
		t.Fatalf("unknown os must yield no manager, got %q", got)
	}
}

func TestFFmpegInstall(t *testing.T) {
	info := FFmpegInstall("apt")
	if !info.Supported || info.Command != "sudo" || info.Description != "sudo apt install -y ffmpeg" {
		t.Fatalf("unexpected apt info: %+v", info)
	}
	if info := FFmpegInstall(""); info.Supported || info.ManualURL == "" {
		t.Fatalf("missing manager must fall back to manual url: %+v", info)
	}
}

func TestMissingTools(t *testing.T) {
	withLookPath(t, "ffmpeg")
	missing := MissingTools()
	if len(missing) != 1 || missing[0] != "ffprobe" {
		t.Fatalf("expected ffprobe missing, got %v", missing)
	}
}
