package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	webpMaxDimension = 1600
	webpQuality      = 80
)

// SaveImageAsWebP menerima file upload (jpeg/png/webp), resize bila perlu,
// re-encode ke WebP, lalu simpan ke disk di bawah baseDir/folder.
// Return path relatif yang bisa diserve via /uploads.
func SaveImageAsWebP(baseDir, folder string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("gagal membuka file gambar: %w", err)
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, src); err != nil {
		return "", fmt.Errorf("gagal membaca file gambar: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		// fallback: coba decode webp
		if wimg, werr := webp.Decode(bytes.NewReader(buf.Bytes())); werr == nil {
			img = wimg
		} else {
			return "", fmt.Errorf("format gambar tidak didukung: %w", err)
		}
	}

	// Resize proporsional kalau melebihi dimensi maksimum
	b := img.Bounds()
	if b.Dx() > webpMaxDimension || b.Dy() > webpMaxDimension {
		img = imaging.Fit(img, webpMaxDimension, webpMaxDimension, imaging.Lanczos)
	}

	out := new(bytes.Buffer)
	if err := webp.Encode(out, img, &webp.Options{Lossless: false, Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("gagal encode webp: %w", err)
	}

	relPath := GenerateUniqueFilename(folder, fileHeader.Filename)
	relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath)) + ".webp"

	fullPath := filepath.Join(baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("gagal membuat folder upload: %w", err)
	}
	if err := os.WriteFile(fullPath, out.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("gagal menyimpan gambar: %w", err)
	}

	return relPath, nil
}

// sanitizeFilename menghapus karakter selain huruf, angka, titik, dash, underscore
func sanitizeFilename(filename string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)
	return re.ReplaceAllString(filename, "_")
}

func GenerateUniqueFilename(folder, originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	uuidStr := uuid.New().String()
	safeFilename := sanitizeFilename(originalFilename)
	return filepath.Join(folder, fmt.Sprintf("%s-%s-%s", timestamp, uuidStr, safeFilename))
}
