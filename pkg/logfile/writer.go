package logfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/dribbe/glucomon/pkg/glucose"
)

// Writer appends readings to a CSV file, one file per session. Append is
// safe to call from the bus goroutine while the UI closes the writer.
type Writer struct {
	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

func NewWriter(dir string) (*Writer, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logfile dir: %w", err)
		}
	}
	name := filepath.Join(dir, fmt.Sprintf("glucomon-%s.csv", time.Now().Format("2006-01-02-15-04-05")))
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("logfile create: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	return &Writer{f: f, w: w}, nil
}

func (l *Writer) Name() string {
	return l.f.Name()
}

func (l *Writer) Append(u glucose.Update) error {
	row := []string{
		u.Reading.Timestamp.Format(TimeFormat),
		"",
		u.Reading.Trend.String(),
		u.Reading.Kind.String(),
		"",
	}
	if u.Reading.Value != nil {
		row[1] = strconv.Itoa(*u.Reading.Value)
	}
	if u.Delta != nil {
		row[4] = strconv.Itoa(*u.Delta)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

func (l *Writer) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
