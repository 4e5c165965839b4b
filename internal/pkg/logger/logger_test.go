package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestWithFieldsWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)

	log.WithFields(map[string]interface{}{
		"session_id": 7,
		"status":     "pass",
	}).Info("Audit result updated")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["message"] != "Audit result updated" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["status"] != "pass" {
		t.Errorf("status = %v", entry["status"])
	}
	if entry["service"] != "cisaudit" {
		t.Errorf("service = %v", entry["service"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "error", Format: "json"}, &buf)

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line written at error level: %s", buf.String())
	}

	log.Error("kept")
	if buf.Len() == 0 {
		t.Error("error line not written")
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("bogus") != parseLevel("info") {
		t.Error("unknown level should default to info")
	}
}
