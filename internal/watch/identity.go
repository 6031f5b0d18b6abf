package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Fingerprint bir medya dosyasının kimliğidir. Yol, boyut veya değişiklik
// zamanı farklıysa dosya başka bir medya sayılır.
type Fingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Identity dosyanın parmak izini okur.
func Identity(path string) (Fingerprint, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Fingerprint{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Fingerprint{}, err
	}
	if info.IsDir() {
		return Fingerprint{}, fmt.Errorf("dosya bekleniyordu, dizin verildi: %s", path)
	}
	return Fingerprint{Path: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// String düzenleyicide kimlik karşılaştırması için kullanılan anahtar.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%s|%d|%d", f.Path, f.Size, f.ModTime.UnixNano())
}
