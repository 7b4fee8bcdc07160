package logging

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
)

const (
	sessionExt      = ".log"
	sessionIDLayout = "20060102T150405Z"
)

// RunLog is the log file of one terminal UI session.
type RunLog struct {
	Dir   string
	RunID string
	Path  string
	file  *os.File
}

// NewRunLog opens a new session log in the directory SessionDir picks for
// dataFile, creating the directory when needed.
func NewRunLog(baseDir, dataFile string) (*RunLog, error) {
	dir, err := SessionDir(baseDir, dataFile)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := fmt.Sprintf("%s-%d", time.Now().UTC().Format(sessionIDLayout), os.Getpid())
	path := filepath.Join(dir, id+sessionExt)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &RunLog{Dir: dir, RunID: id, Path: path, file: file}, nil
}

// Writer returns the underlying log file writer.
func (r *RunLog) Writer() io.Writer {
	return r.file
}

// Logger returns a logger writing to the session log. Timestamps are
// always on since the file outlives the session.
func (r *RunLog) Logger(opts Options) *log.Logger {
	opts.Timestamps = true
	return New(r.file, opts)
}

// Close closes the log file.
func (r *RunLog) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// SessionDir returns the log directory for the task list stored at
// dataFile: <baseDir>/<list name>-<hash>. Every session on the same list
// shares it. The directory is not created.
func SessionDir(baseDir, dataFile string) (string, error) {
	if strings.TrimSpace(baseDir) == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if strings.TrimSpace(dataFile) == "" {
		return "", fmt.Errorf("data file is empty")
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve log dir: %w", err)
	}
	absData, err := filepath.Abs(dataFile)
	if err != nil {
		return "", fmt.Errorf("resolve data file: %w", err)
	}

	sum := sha256.Sum256([]byte(absData))
	return filepath.Join(absBase, listName(absData)+"-"+hex.EncodeToString(sum[:4])), nil
}

// listName turns a data file path into a readable directory name:
// "~/Minhas Tarefas.json" becomes "minhas-tarefas".
func listName(dataFile string) string {
	base := filepath.Base(dataFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "tarefas"
	}
	return strings.ToLower(strings.Join(words, "-"))
}

// LatestSession returns the newest session log in dir, or an empty string
// when there is none. Session ids start with a UTC timestamp, so the
// newest file sorts last.
func LatestSession(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), sessionExt) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	slices.Sort(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

// Tail writes the last n lines of the file at path to w. n <= 0 writes
// the whole file.
func Tail(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n <= 0 {
		_, err = io.Copy(w, file)
		return err
	}

	// Ring of the last n lines seen.
	ring := make([]string, n)
	count := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		ring[count%n] = scanner.Text()
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	start := max(count-n, 0)
	for i := start; i < count; i++ {
		if _, err := fmt.Fprintln(w, ring[i%n]); err != nil {
			return err
		}
	}
	return nil
}
