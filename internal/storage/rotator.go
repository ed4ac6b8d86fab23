package storage

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// Rotation triggers
	MaxMatchesPerFile = 1000
	MaxFileAge        = 1 * time.Hour
)

// FileRotator writes feature records to rotating JSONL files. Closed files
// move from hot/ to warm/ where the training pipeline picks them up; archived
// files are gzipped into cold/.
type FileRotator struct {
	mu sync.Mutex

	hotDir  string // Active writes
	warmDir string // Closed files awaiting the training pipeline
	coldDir string // Compressed archives

	currentFile   *os.File
	currentWriter *bufio.Writer
	currentPath   string
	matchCount    int
	fileOpenedAt  time.Time
}

// NewFileRotator creates a rotator rooted at baseDir
func NewFileRotator(baseDir string) (*FileRotator, error) {
	hotDir := filepath.Join(baseDir, "hot")
	warmDir := filepath.Join(baseDir, "warm")
	coldDir := filepath.Join(baseDir, "cold")

	for _, dir := range []string{hotDir, warmDir, coldDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	r := &FileRotator{
		hotDir:  hotDir,
		warmDir: warmDir,
		coldDir: coldDir,
	}

	if err := r.rotate(); err != nil {
		return nil, err
	}

	return r, nil
}

// WriteLine appends one record to the current JSONL file
func (r *FileRotator) WriteLine(record interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := r.currentWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if _, err := r.currentWriter.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

// MatchComplete signals that one match's records have all been written.
// It increments the match counter and rotates when a trigger fires.
func (r *FileRotator) MatchComplete() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matchCount++

	if err := r.currentWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	if r.shouldRotate() {
		if err := r.rotate(); err != nil {
			return err
		}
	}

	return nil
}

func (r *FileRotator) shouldRotate() bool {
	if r.currentFile == nil {
		return true
	}
	if r.matchCount >= MaxMatchesPerFile {
		return true
	}
	if time.Since(r.fileOpenedAt) >= MaxFileAge {
		return true
	}
	return false
}

// rotate closes the current file, moves it to warm, and opens a fresh one
func (r *FileRotator) rotate() error {
	if r.currentFile != nil {
		if err := r.currentWriter.Flush(); err != nil {
			return fmt.Errorf("failed to flush before rotation: %w", err)
		}
		if err := r.currentFile.Close(); err != nil {
			return fmt.Errorf("failed to close file: %w", err)
		}

		warmPath := filepath.Join(r.warmDir, filepath.Base(r.currentPath))
		if err := os.Rename(r.currentPath, warmPath); err != nil {
			return fmt.Errorf("failed to move to warm storage: %w", err)
		}
		fmt.Printf("[Rotator] Moved %s to warm storage (%d matches)\n", filepath.Base(r.currentPath), r.matchCount)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("matchup_features_%s.jsonl", timestamp)
	r.currentPath = filepath.Join(r.hotDir, filename)

	file, err := os.Create(r.currentPath)
	if err != nil {
		return fmt.Errorf("failed to create new file: %w", err)
	}

	r.currentFile = file
	r.currentWriter = bufio.NewWriterSize(file, 64*1024)
	r.matchCount = 0
	r.fileOpenedAt = time.Now()

	return nil
}

// Close flushes and closes the current file, moving it to warm if non-empty
func (r *FileRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentFile == nil {
		return nil
	}

	if err := r.currentWriter.Flush(); err != nil {
		return err
	}
	if err := r.currentFile.Close(); err != nil {
		return err
	}

	if r.matchCount > 0 {
		warmPath := filepath.Join(r.warmDir, filepath.Base(r.currentPath))
		if err := os.Rename(r.currentPath, warmPath); err != nil {
			return err
		}
	} else {
		os.Remove(r.currentPath)
	}

	r.currentFile = nil
	return nil
}

// Stats returns current rotator statistics
func (r *FileRotator) Stats() (matchesInCurrentFile int, currentFileName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matchCount, filepath.Base(r.currentPath)
}

// CompressToCold compresses a warm file into cold storage and removes the
// original
func CompressToCold(warmPath, coldDir string) error {
	src, err := os.Open(warmPath)
	if err != nil {
		return err
	}
	defer src.Close()

	filename := filepath.Base(warmPath) + ".gz"
	coldPath := filepath.Join(coldDir, filename)
	dst, err := os.Create(coldPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	gzWriter := gzip.NewWriter(dst)
	if _, err := io.Copy(gzWriter, src); err != nil {
		return err
	}
	if err := gzWriter.Close(); err != nil {
		return err
	}

	if err := os.Remove(warmPath); err != nil {
		return err
	}

	return nil
}
