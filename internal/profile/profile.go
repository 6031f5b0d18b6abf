// Package profile hazır render profillerini tanımlar.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mlihgenel/clipeditor-cli/internal/batch"
	"github.com/mlihgenel/clipeditor-cli/internal/media"
)

// Definition render profili alanlarını tutar.
// nil pointer alanlar "profil bu alanı zorlamıyor" anlamına gelir.
type Definition struct {
	Name         string
	Description  string
	Codec        string
	Quality      *int
	OnConflict   string
	Retry        *int
	RetryDelay   *time.Duration
	Report       string
	MetadataMode string
}

var builtins = map[string]Definition{
	"web-fast": {
		Name:         "web-fast",
		Description:  "Hizli kesim; ayni kapta yeniden kodlamadan kopyalar",
		Codec:        media.CodecCopy,
		OnConflict:   media.ConflictVersioned,
		Retry:        intPtr(1),
		RetryDelay:   durationPtr(500 * time.Millisecond),
		Report:       batch.ReportOff,
		MetadataMode: media.MetadataStrip,
	},
	"social-clip": {
		Name:         "social-clip",
		Description:  "Kare hassas kesim; paylasim icin yeniden kodlar",
		Codec:        media.CodecReencode,
		Quality:      intPtr(82),
		OnConflict:   media.ConflictVersioned,
		Retry:        intPtr(1),
		RetryDelay:   durationPtr(500 * time.Millisecond),
		Report:       batch.ReportTXT,
		MetadataMode: media.MetadataStrip,
	},
	"archive-lossless": {
		Name:         "archive-lossless",
		Description:  "Kayipsiz kopya; metadata korunur",
		Codec:        media.CodecCopy,
		Quality:      intPtr(100),
		OnConflict:   media.ConflictVersioned,
		Retry:        intPtr(0),
		RetryDelay:   durationPtr(0),
		Report:       batch.ReportJSON,
		MetadataMode: media.MetadataPreserve,
	},
}

// Resolve isimden profile döner.
func Resolve(name string) (Definition, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Definition{}, fmt.Errorf("profil adi bos")
	}
	p, ok := builtins[key]
	if !ok {
		return Definition{}, fmt.Errorf("profil bulunamadi: %s (gecerli: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names built-in profil isimlerini sıralı döner.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for k := range builtins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Apply profili trimmer ve pool ayarlarına uygular. Kullanıcının açıkça
// verdiği değerler (explicit) profilden önce gelir.
func (d Definition) Apply(tr *media.Trimmer, pool *batch.Pool, explicit map[string]bool) {
	if tr != nil {
		if d.Codec != "" && !explicit["codec"] {
			tr.Codec = d.Codec
		}
		if d.Quality != nil && !explicit["quality"] {
			tr.Quality = *d.Quality
		}
		if d.OnConflict != "" && !explicit["on-conflict"] {
			tr.OnConflict = d.OnConflict
		}
		if d.MetadataMode != "" && !explicit["metadata"] {
			tr.MetadataMode = d.MetadataMode
		}
	}
	if pool != nil {
		retry, delay := pool.RetryMax, pool.RetryDelay
		if d.Retry != nil && !explicit["retry"] {
			retry = *d.Retry
		}
		if d.RetryDelay != nil && !explicit["retry-delay"] {
			delay = *d.RetryDelay
		}
		pool.SetRetry(retry, delay)
	}
}

func intPtr(v int) *int { return &v }

func durationPtr(v time.Duration) *time.Duration { return &v }
