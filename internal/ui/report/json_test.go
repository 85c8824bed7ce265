package report

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded["files"].(float64) != 2 {
		t.Errorf("files = %v, want 2", decoded["files"])
	}
	if decoded["unused_count"].(float64) != 1 {
		t.Errorf("unused_count = %v, want 1", decoded["unused_count"])
	}

	stats := decoded["stats"].(map[string]any)
	if len(stats) != 6 {
		t.Errorf("stats has %d kinds, want 6", len(stats))
	}

	unused := decoded["unused"].([]any)
	entry := unused[0].(map[string]any)
	if entry["name"] != "Spinner" || entry["kind"] != "component" {
		t.Errorf("unexpected unused entry: %v", entry)
	}
}

func TestWriteJSONEmptyUnusedIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, cleanReport()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"unused": []`)) {
		t.Errorf("unused should encode as empty array:\n%s", buf.String())
	}
}
