// Package installer eksik ffmpeg kurulumunu paket yöneticisi üzerinden yapar.
package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ManualURL otomatik kurulum yapılamadığında gösterilir.
const ManualURL = "https://ffmpeg.org/download.html"

// InstallInfo kurulum bilgisini tutar
type InstallInfo struct {
	Manager     string
	Command     string
	Args        []string
	Description string
	ManualURL   string
	Supported   bool // Otomatik kurulum destekleniyor mu
}

// lookPath testlerde değiştirilebilir.
var lookPath = exec.LookPath

// Her işletim sistemi için denenecek paket yöneticileri, öncelik sırasıyla.
var managersByOS = map[string][]string{
	"darwin":  {"brew"},
	"linux":   {"apt", "dnf", "yum", "pacman"},
	"windows": {"choco", "winget"},
}

// ffmpeg paketi ffprobe'u da içerir.
var ffmpegCommands = map[string][]string{
	"brew":   {"brew", "install", "ffmpeg"},
	"apt":    {"sudo", "apt", "install", "-y", "ffmpeg"},
	"dnf":    {"sudo", "dnf", "install", "-y", "ffmpeg"},
	"yum":    {"sudo", "yum", "install", "-y", "ffmpeg"},
	"pacman": {"sudo", "pacman", "-S", "--noconfirm", "ffmpeg"},
	"choco":  {"choco", "install", "ffmpeg", "-y"},
	"winget": {"winget", "install", "Gyan.FFmpeg"},
}

// DetectPackageManager mevcut paket yöneticisini tespit eder
func DetectPackageManager() string {
	return detectFor(runtime.GOOS)
}

func detectFor(goos string) string {
	for _, pm := range managersByOS[goos] {
		if _, err := lookPath(pm); err == nil {
			return pm
		}
	}
	return ""
}

// FFmpegInstall verilen paket yöneticisi için ffmpeg kurulum komutunu döner.
func FFmpegInstall(pm string) InstallInfo {
	info := InstallInfo{Manager: pm, ManualURL: ManualURL}
	argv, ok := ffmpegCommands[pm]
	if !ok {
		return info
	}
	info.Command = argv[0]
	info.Args = argv[1:]
	info.Description = strings.Join(argv, " ")
	info.Supported = true
	return info
}

// InstallFFmpeg ffmpeg'i kurar ve çalıştırılan komutu döner.
func InstallFFmpeg(ctx context.Context) (string, error) {
	info := FFmpegInstall(DetectPackageManager())
	if !info.Supported {
		return "", fmt.Errorf("FFmpeg otomatik olarak kurulamiyor.\nManuel kurulum: %s", info.ManualURL)
	}

	cmd := exec.CommandContext(ctx, info.Command, info.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("FFmpeg kurulumu basarisiz: %w", err)
	}
	return info.Description, nil
}

// MissingTools PATH'te bulunmayan ffmpeg araçlarını döner.
func MissingTools() []string {
	var missing []string
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}
