package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestFieldErrorCarriesViolation(t *testing.T) {
	err := NewFieldError("values[1].sensor_id", "required", "sensor_id is required")
	if err.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", err.Code)
	}
	v, ok := err.Details.(FieldViolation)
	if !ok {
		t.Fatalf("expected FieldViolation details, got %T", err.Details)
	}
	if v.Field != "values[1].sensor_id" || v.Constraint != "required" {
		t.Fatalf("unexpected violation: %#v", v)
	}
	if !IsValidation(err) || IsStorage(err) {
		t.Fatalf("classification mismatch for %v", err)
	}
}

func TestStorageErrorHidesCauseFromJSON(t *testing.T) {
	cause := stderrors.New("dial tcp 10.0.0.5:5432: connection refused")
	err := NewStorageError("failed to insert readings", cause)

	raw, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("marshal: %v", marshalErr)
	}
	if strings.Contains(string(raw), "10.0.0.5") || strings.Contains(string(raw), "failed to insert readings") {
		t.Fatalf("internal detail leaked into payload: %s", raw)
	}
	if err.Message != StorageFailureMessage {
		t.Fatalf("expected generic message, got %q", err.Message)
	}
	if !strings.Contains(err.Error(), "failed to insert readings: dial tcp") {
		t.Fatalf("Error() should keep the cause for logs: %s", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Fatalf("Unwrap should expose the cause")
	}
}

func TestClassificationThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", NewStorageError("commit failed", nil))
	if !IsStorage(wrapped) {
		t.Fatalf("expected wrapped storage error to be detected")
	}
	if IsNotFound(wrapped) || IsValidation(wrapped) {
		t.Fatalf("wrong classification")
	}
	apiErr, ok := AsAPIError(wrapped)
	if !ok || apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("AsAPIError mismatch: %#v %v", apiErr, ok)
	}
	if _, ok := AsAPIError(stderrors.New("plain")); ok {
		t.Fatalf("plain error must not be an APIError")
	}
}
