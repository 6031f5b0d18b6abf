package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mlihgenel/clipeditor-cli/internal/edit"
)

// SidecarSuffix düzenleme dosyalarının sonekidir: klip.mp4 için
// klip.mp4.edit.json.
const SidecarSuffix = ".edit.json"

// SidecarPath kaynak medya için düzenleme dosyası yolunu döner.
func SidecarPath(source string) string {
	return source + SidecarSuffix
}

// IsSidecar yolun bir düzenleme dosyası olup olmadığını söyler.
func IsSidecar(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), SidecarSuffix)
}

// SaveSidecar payload'ı kaynağın yanına yazar.
func SaveSidecar(source string, p edit.Payload) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	path := SidecarPath(source)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("duzenleme dosyasi yazilamadi: %w", err)
	}
	return path, nil
}

// LoadSidecar düzenleme dosyasını bir işe çevirir. Kaynak yoksa iş
// atlanır; dosya bozuksa LoadErr doldurulur.
func LoadSidecar(path string) Job {
	source := path[:len(path)-len(SidecarSuffix)]
	job := Job{SidecarPath: path, Source: source}

	data, err := os.ReadFile(path)
	if err != nil {
		job.LoadErr = fmt.Errorf("duzenleme dosyasi okunamadi: %w", err)
		return job
	}
	if err := json.Unmarshal(data, &job.Payload); err != nil {
		job.LoadErr = fmt.Errorf("duzenleme dosyasi gecersiz: %w", err)
		return job
	}
	if err := job.Payload.Validate(); err != nil {
		job.LoadErr = err
		return job
	}
	if _, err := os.Stat(source); err != nil {
		job.SkipReason = "source_missing"
	}
	return job
}

// CollectJobs dizindeki düzenleme dosyalarını toplar. Sonuç yola göre
// sıralıdır.
func CollectJobs(dir string, recursive bool) ([]Job, error) {
	var paths []string

	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Erişilemeyen dosyaları atla
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSidecar(path) {
			paths = append(paths, path)
		}
		return nil
	}

	if err := filepath.WalkDir(dir, walkFn); err != nil {
		return nil, fmt.Errorf("dizin taranamadi: %w", err)
	}
	sort.Strings(paths)

	jobs := make([]Job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, LoadSidecar(p))
	}
	return jobs, nil
}

// CollectJobsFromGlob glob pattern ile düzenleme dosyalarını toplar.
func CollectJobsFromGlob(pattern string) ([]Job, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob pattern hatasi: %w", err)
	}

	var jobs []Job
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() || !IsSidecar(m) {
			continue
		}
		jobs = append(jobs, LoadSidecar(m))
	}
	return jobs, nil
}
