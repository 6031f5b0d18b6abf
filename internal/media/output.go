package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Çıktı dosyası zaten varsa uygulanacak politika.
const (
	ConflictOverwrite = "overwrite"
	ConflictSkip      = "skip"
	ConflictVersioned = "versioned"
)

// Metadata modları.
const (
	MetadataAuto     = "auto"
	MetadataPreserve = "preserve"
	MetadataStrip    = "strip"
)

// ErrOutputExists skip politikasında hedef dosya zaten varsa döner.
var ErrOutputExists = errors.New("cikti dosyasi zaten var")

// NormalizeConflictPolicy boş değerde versioned döner, bilinmeyen değerde "".
func NormalizeConflictPolicy(policy string) string {
	switch p := strings.ToLower(strings.TrimSpace(policy)); p {
	case ConflictOverwrite, ConflictSkip:
		return p
	case ConflictVersioned, "":
		return ConflictVersioned
	}
	return ""
}

// NormalizeMetadataMode metadata modunu normalize eder.
func NormalizeMetadataMode(mode string) string {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "", MetadataAuto:
		return MetadataAuto
	case MetadataPreserve, MetadataStrip:
		return m
	}
	return ""
}

func metadataArgs(mode string) []string {
	if NormalizeMetadataMode(mode) == MetadataStrip {
		return []string{"-map_metadata", "-1"}
	}
	return nil
}

// OutputPath kırpılmış dosyanın hedef yolunu üretir: <dir>/<ad><suffix><uzantı>.
// dir boşsa kaynağın dizini kullanılır.
func OutputPath(source, dir, suffix string) string {
	ext := filepath.Ext(source)
	base := strings.TrimSuffix(filepath.Base(source), ext)
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, base+suffix+ext)
}

// ResolveConflict hedef dosya adı çakışmasını politikaya göre çözer.
// skip politikasında ve dosya varsa ErrOutputExists döner.
func ResolveConflict(path, policy string) (string, error) {
	normalized := NormalizeConflictPolicy(policy)
	if normalized == "" {
		return "", fmt.Errorf("gecersiz on-conflict politikasi: %s", policy)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		return "", err
	}

	switch normalized {
	case ConflictOverwrite:
		return path, nil
	case ConflictSkip:
		return "", fmt.Errorf("%w: %s", ErrOutputExists, path)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i < 100000; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("uygun versioned dosya adi bulunamadi")
}
