// Tests for report encoding and file export.
package production

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
)

func collectedModel(t *testing.T) (*heap.Model, *gc.Serial) {
	t.Helper()

	m := heap.NewModel()
	a := m.Allocate("Node", 64, heap.DefaultThread)
	b := m.Allocate("Node", 32, "")
	m.CreateReference(a.ID, b.ID)
	m.Allocate("Garbage", 128, "")

	s := gc.NewSerial(m)
	s.StartMinor()
	for s.Step() {
	}
	return m, s
}

func TestNewReport(t *testing.T) {
	m, s := collectedModel(t)
	r := NewReport(s, m)

	require.Equal(t, gc.KindSerial, r.Collector)
	require.Equal(t, gc.PhaseIdle, r.Phase)
	require.False(t, r.Running)
	require.Equal(t, []heap.ObjectID{1, 2}, r.Marked)
	require.Len(t, r.Timeline, 4)
	require.Len(t, r.Heap.Objects, 2)
}

func TestEncode_JSON(t *testing.T) {
	m, s := collectedModel(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, NewReport(s, m)))
	if !strings.Contains(buf.String(), `"collector": "serial"`) {
		t.Error("JSON missing collector")
	}

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(m.Snapshot(), got.Heap); diff != "" {
		t.Errorf("heap mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_YAML(t *testing.T) {
	m, s := collectedModel(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatYAML, NewReport(s, m)))
	if !strings.Contains(buf.String(), "phase: copy") {
		t.Error("YAML missing timeline phase")
	}

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "serial", got["collector"])
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, "xml", nil)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileExporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	e, err := NewFileExporter(dir, FormatYAML)
	require.NoError(t, err)

	m, s := collectedModel(t)
	fn, err := e.Export(context.Background(), NewReport(s, m))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "serial-"+s.CycleID()+".yaml"), fn)

	data, err := os.ReadFile(fn)
	require.NoError(t, err)

	var got Report
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Equal(t, s.CycleID(), got.CycleID)
	require.Equal(t, m.Snapshot().Stats, got.Heap.Stats)

	_, err = NewFileExporter(dir, "toml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileExporter_Cancelled(t *testing.T) {
	e, err := NewFileExporter(t.TempDir(), FormatJSON)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = e.Export(ctx, Report{Collector: gc.KindZGC})
	require.ErrorIs(t, err, context.Canceled)
}
