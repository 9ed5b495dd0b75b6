// Package pdf genera el reporte de analítica de documentos en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtros     │  Usuario + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Total | Procesados | Pendientes | Errores | Tasa      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLAS: Departamento / Tipo / Prioridad                     │
//	│  TABLA: Tendencia de subidas (últimos 30 días)               │
//	│  TABLA: Documentos recientes                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/idcr-client/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var titleCaser = cases.Title(language.Spanish)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateAnalyticsReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateAnalyticsReport(ctx context.Context, data dto.ReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(data.Title, true).
		WithAuthor(data.GeneratedBy.FullName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRows(data.Stats)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(countTable("Documentos por departamento", data.Stats.DepartmentStats, true)...)
	m.AddRows(countTable("Documentos por tipo", data.Stats.DocumentTypes, true)...)
	m.AddRows(countTable("Documentos por prioridad", data.Stats.Priorities, false)...)
	m.AddRows(trendRows(data.Stats.UploadTrends)...)
	m.AddRows(recentRows(data.Recent)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y filtros (izq), usuario y fecha (der).
func headerRow(data dto.ReportData) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(data.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(filterLabel(data.Filter), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(nonEmpty(data.GeneratedBy.FullName, data.GeneratedBy.Email), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New(roleLabel(data.GeneratedBy), props.Text{
				Size: 8, Align: align.Right, Top: 6, Color: colorGray,
			}),
			text.New("Generado: "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// kpiRows: cinco indicadores en una fila.
func kpiRows(s dto.StatsSnapshot) []core.Row {
	kpi := func(label, value string, c *props.Color) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: c, Top: 6}),
		)
	}
	return []core.Row{
		row.New(16).Add(
			col.New(1),
			kpi("Total", strconv.Itoa(s.TotalDocuments), colorPrimary),
			kpi("Procesados", strconv.Itoa(s.ProcessedDocuments), colorPrimary),
			kpi("Pendientes", strconv.Itoa(s.PendingDocuments), colorPrimary),
			kpi("Errores", strconv.Itoa(s.ErrorDocuments), colorDanger),
			kpi("Tasa", s.ProcessingRate.StringFixed(1)+"%", colorPrimary),
			col.New(1),
		),
	}
}

// countTable: tabla clave → cantidad, ordenada por cantidad desc y clave asc.
func countTable(title string, counts map[string]int, titled bool) []core.Row {
	rows := []core.Row{sectionTitle(title), tableHeader("Categoría", "Cantidad")}
	if len(counts) == 0 {
		return append(rows, emptyRow())
	}
	for _, kv := range sortCounts(counts) {
		label := kv.key
		if titled {
			label = titleCaser.String(label)
		}
		rows = append(rows, tableRow(label, strconv.Itoa(kv.n)))
	}
	return rows
}

// trendRows: solo días con subidas; el backend rellena los demás con cero.
func trendRows(trends []dto.UploadTrend) []core.Row {
	rows := []core.Row{sectionTitle("Tendencia de subidas"), tableHeader("Fecha", "Subidas")}
	n := 0
	for _, t := range trends {
		if t.Count == 0 {
			continue
		}
		rows = append(rows, tableRow(t.Date, strconv.Itoa(t.Count)))
		n++
	}
	if n == 0 {
		rows = append(rows, emptyRow())
	}
	return rows
}

// recentRows: tabla de documentos recientes.
func recentRows(docs []dto.Document) []core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Left: 1,
		}))
	}
	c := func(v string, size int) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 8, Top: 1, Left: 1}))
	}

	rows := []core.Row{
		sectionTitle("Documentos recientes"),
		row.New(6).Add(h("Archivo", 4), h("Tipo", 3), h("Departamento", 2), h("Estado", 2), h("Prioridad", 1)),
	}
	if len(docs) == 0 {
		return append(rows, emptyRow())
	}
	for _, d := range docs {
		rows = append(rows, row.New(6).Add(
			c(truncate(d.Filename, 40), 4),
			c(nonEmpty(d.DocumentType, "—"), 3),
			c(titleCaser.String(nonEmpty(d.Department, "—")), 2),
			c(nonEmpty(d.Status, "—"), 2),
			c(nonEmpty(d.Priority, "—"), 1),
		))
	}
	return rows
}

func footerRow(data dto.ReportData) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Reporte generado por idcr para %s. Cifras calculadas por el backend al %s.",
				nonEmpty(data.GeneratedBy.Email, "usuario"), data.GeneratedAt.Format("2006-01-02")),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── Bloques de tabla ──────────────────────────────────────────────────────────

func sectionTitle(s string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3}),
	))
}

func tableHeader(left, right string) core.Row {
	return row.New(6).Add(
		col.New(8).Add(text.New(left, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(right, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func tableRow(left, right string) core.Row {
	return row.New(5).Add(
		col.New(8).Add(text.New(left, props.Text{Size: 8, Left: 1})),
		col.New(4).Add(text.New(right, props.Text{Size: 8, Align: align.Right, Right: 1})),
	)
}

func emptyRow() core.Row {
	return row.New(5).Add(col.New(12).Add(
		text.New("Sin datos", props.Text{Size: 8, Color: colorGray, Left: 1}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

type countKV struct {
	key string
	n   int
}

func sortCounts(m map[string]int) []countKV {
	out := make([]countKV, 0, len(m))
	for k, v := range m {
		out = append(out, countKV{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].key < out[j].key
	})
	return out
}

func filterLabel(f dto.AnalyticsFilter) string {
	dept := "Todos los departamentos"
	if f.Department != "" {
		dept = titleCaser.String(f.Department)
	}
	switch {
	case f.From != "" && f.To != "":
		return fmt.Sprintf("%s · %s a %s", dept, f.From, f.To)
	case f.From != "":
		return fmt.Sprintf("%s · desde %s", dept, f.From)
	case f.To != "":
		return fmt.Sprintf("%s · hasta %s", dept, f.To)
	}
	return dept
}

func roleLabel(u dto.UserProfile) string {
	if u.Department == "" {
		return titleCaser.String(u.Role)
	}
	return titleCaser.String(u.Role) + " · " + titleCaser.String(u.Department)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
