package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	warns  []map[string]interface{}
	errors []map[string]interface{}
}

func (r *recordingLogger) Warn(_ string, fields map[string]interface{}) {
	r.warns = append(r.warns, fields)
}

func (r *recordingLogger) Error(_ string, fields map[string]interface{}) {
	r.errors = append(r.errors, fields)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"config missing", NewConfigMissingError("configs/menu.cafe.yml"), 2},
		{"config invalid", NewConfigInvalidError("configs/menu.cafe.yml", "bad yaml"), 2},
		{"schema", NewSchemaViolationError(4, []string{"a", "b", "c"}), 3},
		{"semantic", NewSemanticViolationError(1, []string{"unknown sku: X"}), 4},
		{"warning", NewDataQualityWarning("alias conflict"), 0},
		{"io", NewArtifactIOError("out/aliases.json", fs.ErrPermission), 1},
		{"wrapped", fmt.Errorf("validate: %w", NewSemanticViolationError(2, nil)), 4},
		{"plain", stderrors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestStandardError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("load: %w", NewConfigMissingError("x"))
	assert.True(t, stderrors.Is(err, &StandardError{Code: ErrCodeConfigMissing}))
	assert.False(t, stderrors.Is(err, &StandardError{Code: ErrCodeSchemaViolation}))
}

func TestArtifactIOError_Unwraps(t *testing.T) {
	err := NewArtifactIOError("x", fs.ErrNotExist)
	assert.True(t, stderrors.Is(err, fs.ErrNotExist))
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(NewDataQualityWarning("x")))
	assert.True(t, IsFatal(NewSchemaViolationError(1, nil)))
	assert.True(t, IsFatal(stderrors.New("x")))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CONFIG", GetErrorCategory(ErrCodeConfigMissing))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeSchemaViolation))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeSemanticViolation))
	assert.Equal(t, "DATA_QUALITY", GetErrorCategory(ErrCodeDataQualityWarning))
	assert.Equal(t, "IO", GetErrorCategory(ErrCodeArtifactIO))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestSchemaViolationError_PreviewInDetails(t *testing.T) {
	err := NewSchemaViolationError(5, []string{"line 1: a", "line 2: b", "line 3: c"})
	assert.Contains(t, err.Error(), "5 violations")
	assert.Contains(t, err.Error(), "line 1: a; line 2: b; line 3: c")
}

func TestErrorHandler_HandleStageError(t *testing.T) {
	rec := &recordingLogger{}
	h := NewErrorHandler(rec)

	assert.Equal(t, 0, h.HandleStageError("validate", nil))
	assert.Equal(t, 4, h.HandleStageError("validate", NewSemanticViolationError(1, nil)))
	assert.Equal(t, 0, h.HandleStageError("validate", NewDataQualityWarning("dup")))
	assert.Equal(t, 1, h.HandleStageError("validate", stderrors.New("boom")))

	assert.Len(t, rec.errors, 2)
	assert.Len(t, rec.warns, 1)
	assert.Equal(t, "INTERNAL_ERROR", rec.errors[1]["errorCode"])
	assert.Equal(t, "VALIDATION", rec.errors[0]["errorCategory"])
}
