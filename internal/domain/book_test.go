package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyStatus_NoChangeIsNoOp(t *testing.T) {
	book := &Book{Status: StatusTBR, DateStarted: "", DateCompleted: ""}
	originalUpdatedAt := book.UpdatedAt

	changed := book.ApplyStatus(StatusTBR, "2026-08-29")

	assert.False(t, changed)
	assert.Equal(t, StatusTBR, book.Status)
	assert.Empty(t, book.DateStarted)
	assert.Equal(t, originalUpdatedAt, book.UpdatedAt)
}

func TestApplyStatus_TBRToReading_StampsDateStarted(t *testing.T) {
	book := &Book{Status: StatusTBR}

	changed := book.ApplyStatus(StatusReading, "2026-08-29")

	assert.True(t, changed)
	assert.Equal(t, StatusReading, book.Status)
	assert.Equal(t, "2026-08-29", book.DateStarted)
	assert.Empty(t, book.DateCompleted)
}

func TestApplyStatus_ToReading_KeepsExistingDateStarted(t *testing.T) {
	book := &Book{Status: StatusDNF, DateStarted: "2025-01-15"}

	book.ApplyStatus(StatusReading, "2026-08-29")

	assert.Equal(t, "2025-01-15", book.DateStarted)
}

func TestApplyStatus_ToCompleted_StampsDateCompleted(t *testing.T) {
	book := &Book{Status: StatusReading, DateStarted: "2026-08-01"}

	changed := book.ApplyStatus(StatusCompleted, "2026-08-29")

	assert.True(t, changed)
	assert.Equal(t, StatusCompleted, book.Status)
	assert.Equal(t, "2026-08-29", book.DateCompleted)
	assert.Equal(t, "2026-08-01", book.DateStarted)
}

func TestApplyStatus_LeavingCompleted_ClearsDateCompleted(t *testing.T) {
	book := &Book{Status: StatusCompleted, DateCompleted: "2026-08-20"}

	changed := book.ApplyStatus(StatusTBR, "2026-08-29")

	assert.True(t, changed)
	assert.Equal(t, StatusTBR, book.Status)
	assert.Empty(t, book.DateCompleted)
}

func TestApplyStatus_UpdatesTimestamp(t *testing.T) {
	book := &Book{Status: StatusTBR}
	before := book.UpdatedAt

	book.ApplyStatus(StatusReading, "2026-08-29")

	assert.True(t, book.UpdatedAt.After(before))
}
