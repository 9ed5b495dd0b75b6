package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

func TestBuildListQuery_SinFiltros(t *testing.T) {
	q, args := buildListQuery(entity.DocumentFilter{})
	assert.NotContains(t, q, "WHERE")
	assert.NotContains(t, q, "LIMIT")
	assert.True(t, strings.HasSuffix(q, "ORDER BY uploaded_at DESC"))
	assert.Empty(t, args)
}

func TestBuildListQuery_TodosLosFiltros(t *testing.T) {
	q, args := buildListQuery(entity.DocumentFilter{
		Department: "Finance",
		Status:     "pending",
		UploadedBy: "u-1",
		Search:     "50%_off",
		SortBy:     "file_size",
		Limit:      20,
	})
	assert.Contains(t, q, "lower(department) = lower($1)")
	assert.Contains(t, q, "status = $2")
	assert.Contains(t, q, "uploaded_by = $3")
	assert.Contains(t, q, "filename ILIKE $4 OR document_type ILIKE $4 OR extracted_text ILIKE $4")
	assert.Contains(t, q, "ORDER BY file_size DESC, uploaded_at DESC")
	assert.True(t, strings.HasSuffix(q, "LIMIT $5"))
	assert.Equal(t, []any{"Finance", "pending", "u-1", `%50\%\_off%`, 20}, args)
}

func TestBuildListQuery_OrdenDesconocidoUsaFecha(t *testing.T) {
	q, _ := buildListQuery(entity.DocumentFilter{SortBy: "nope"})
	assert.Contains(t, q, "ORDER BY uploaded_at DESC")

	q, _ = buildListQuery(entity.DocumentFilter{SortBy: "priority"})
	assert.Contains(t, q, "WHEN 'urgent' THEN 0")
}
