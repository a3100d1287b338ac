// Package system holds host helpers: file discovery, encoder detection and
// frame buffer reuse.
package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	AudioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}
	ImageExtensions = []string{".jpg", ".jpeg", ".png"}
)

// FindLatestAudio returns the most recently modified audio file in dir.
func FindLatestAudio(dir string) (string, error) {
	latest, err := findLatest(dir, AudioExtensions)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", fmt.Errorf("no audio files found in %s", dir)
	}
	return latest, nil
}

// FindLatestImage returns path itself when it is a file, otherwise the most
// recently modified image in the directory.
func FindLatestImage(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return path, nil
	}
	latest, err := findLatest(path, ImageExtensions)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", fmt.Errorf("no images found in %s", path)
	}
	return latest, nil
}

func findLatest(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time
	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), extensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}
	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// GetBestH264Encoder picks a hardware H.264 encoder when ffmpeg offers one.
// Order: VideoToolbox (macOS), NVENC, then libx264.
func GetBestH264Encoder(ffmpegPath string) string {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	out, err := exec.Command(ffmpegPath, "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		log.Printf("[!] Could not list ffmpeg encoders: %v", err)
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(encodersOutput string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(encodersOutput, name) {
			return name
		}
	}
	return "libx264"
}

// EncoderThreads resolves the thread hint for the encoder. Zero means one
// thread per physical core.
func EncoderThreads(requested int) int {
	if requested > 0 {
		return requested
	}
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		n, err = cpu.Counts(true)
	}
	if err != nil || n <= 0 {
		return 1
	}
	return n
}
