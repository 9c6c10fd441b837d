package production

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
)

// Format selects a report encoding.
type Format string

// Supported report formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// Report is the serializable state of a collector and the heap it manages.
type Report struct {
	Collector gc.Kind          `json:"collector" yaml:"collector"`
	CycleID   string           `json:"cycleID,omitempty" yaml:"cycleID,omitempty"`
	Phase     gc.Phase         `json:"phase" yaml:"phase"`
	Running   bool             `json:"running" yaml:"running"`
	Marked    []heap.ObjectID  `json:"marked,omitempty" yaml:"marked,omitempty"`
	Timeline  []gc.PhaseRecord `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Heap      heap.Snapshot    `json:"heap" yaml:"heap"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
}

// NewReport captures c and m.
func NewReport(c gc.Collector, m *heap.Model) Report {
	return Report{
		Collector: c.Name(),
		CycleID:   c.CycleID(),
		Phase:     c.Phase(),
		Running:   c.Running(),
		Marked:    c.Marked().Sorted(),
		Timeline:  c.Timeline(),
		Heap:      m.Snapshot(),
		Timestamp: time.Now(),
	}
}

// Encode writes v to w in the given format.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "json encode")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "yaml encode")
		}
		return errors.Wrap(enc.Close(), "yaml encode")
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// FileExporter writes reports into a directory, one file per collection cycle.
type FileExporter struct {
	dir    string
	format Format
}

// NewFileExporter creates a FileExporter, ensuring the directory exists.
func NewFileExporter(dir string, format Format) (*FileExporter, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "mkdir %s", dir)
	}
	return &FileExporter{dir: dir, format: format}, nil
}

// Export writes r and returns the file name it was written to. A report of
// the same collector and cycle overwrites the previous one.
func (e *FileExporter) Export(ctx context.Context, r Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err //nolint:wrapcheck
	}

	name := string(r.Collector)
	if r.CycleID != "" {
		name += "-" + r.CycleID
	}
	fn := filepath.Join(e.dir, name+"."+string(e.format))

	f, err := os.Create(fn) //nolint:gosec
	if err != nil {
		return "", errors.Wrapf(err, "create %s", fn)
	}
	defer f.Close() //nolint:errcheck

	if err := Encode(f, e.format, r); err != nil {
		return "", errors.Wrapf(err, "write %s", fn)
	}
	return fn, errors.Wrapf(f.Close(), "close %s", fn)
}
