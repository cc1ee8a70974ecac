package archive

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"

	"flea_market/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	filePrefix  = "expired"
	hourLayout  = "2006-01-02-15"
	writeBuffer = 128 * 1024
)

// Record is one archived offer.
type Record struct {
	ArchivedAt int64        `json:"archivedAt"`
	Offer      entity.Offer `json:"offer"`
}

// Writer пишет истёкшие лоты в JSONL, сжатый zstd, с почасовой ротацией:
// <dir>/expired-YYYY-MM-DD-HH.jsonl.zst.
type Writer struct {
	dir string
	now func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewWriter(dir string) *Writer {
	return &Writer{
		dir: dir,
		now: time.Now,
	}
}

func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Archive appends the offers to the current hour file.
func (w *Writer) Archive(_ context.Context, offers ...entity.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now().UTC()

	if hour := now.Format(hourLayout); hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	for _, o := range offers {
		b, err := json.Marshal(Record{ArchivedAt: now.Unix(), Offer: o})
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		if _, err := w.w.Write(b); err != nil {
			return fmt.Errorf("archive write: %w", err)
		}

		if err := w.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("archive write: %w", err)
		}
	}

	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("archive flush: %w", err)
	}

	return w.enc.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.closeLocked()
}

// Path returns the archive file for the given time.
func (w *Writer) Path(at time.Time) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", filePrefix, at.UTC().Format(hourLayout)))
}

func (w *Writer) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", filePrefix, hour))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("os.OpenFile: %w", err)
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("zstd.NewWriter: %w", err)
	}

	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, writeBuffer)
	w.curHour = hour

	return nil
}

func (w *Writer) closeLocked() error {
	var err error

	if w.w != nil {
		_ = w.w.Flush()
	}

	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}

	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}

	w.w = nil
	w.curHour = ""

	return err
}

// ReadFile decodes every record of an archive file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd.NewReader: %w", err)
	}
	defer dec.Close()

	var records []Record

	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, writeBuffer), 16*1024*1024) //nolint:mnd // one offer line

	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}

		records = append(records, r)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("archive read: %w", err)
	}

	return records, nil
}
