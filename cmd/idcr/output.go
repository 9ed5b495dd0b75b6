package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/idcr-client/internal/application/dto"
)

var titleCase = cases.Title(language.Spanish)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// deptTitle "human_resources" → "Human Resources".
func deptTitle(d string) string {
	if d == "" {
		return "-"
	}
	return titleCase.String(strings.ReplaceAll(d, "_", " "))
}

func when(ts dto.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return humanize.Time(ts.Time)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printDocuments(w io.Writer, docs []dto.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "(sin documentos)")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tARCHIVO\tTIPO\tDEPARTAMENTO\tESTADO\tPRIORIDAD\tTAMAÑO\tSUBIDO")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Filename, orDash(d.DocumentType), deptTitle(d.Department),
			orDash(d.Status), orDash(d.Priority), humanize.IBytes(uint64(max(d.FileSize, 0))), when(d.UploadedAt))
	}
	_ = tw.Flush()
}

func printDocument(w io.Writer, d *dto.Document) {
	tw := newTable(w)
	row := func(k, v string) { fmt.Fprintf(tw, "%s:\t%s\n", k, v) }
	row("ID", d.ID)
	row("Archivo", d.Filename)
	row("Tipo", orDash(d.DocumentType))
	row("Departamento", deptTitle(d.Department))
	row("Estado", orDash(d.Status))
	row("Procesamiento", orDash(d.ProcessingStatus))
	row("Prioridad", orDash(d.Priority))
	row("Tamaño", humanize.IBytes(uint64(max(d.FileSize, 0))))
	row("Subido", fmt.Sprintf("%s (%s)", when(d.UploadedAt), d.UploadedAt.Format(time.RFC3339)))
	if d.ClassificationConfidence.Valid {
		row("Confianza", d.ClassificationConfidence.Decimal.StringFixed(2))
	}
	if d.ReviewedBy != "" {
		row("Revisado por", d.ReviewedBy)
		if d.ReviewedAt != nil {
			row("Revisado", when(*d.ReviewedAt))
		}
		row("Comentarios", orDash(d.ReviewComments))
	}
	_ = tw.Flush()
	if d.Summary != "" {
		fmt.Fprintf(w, "\nResumen:\n%s\n", d.Summary)
	}
}

func printStats(w io.Writer, s *dto.StatsSnapshot) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Total:\t%s\n", humanize.Comma(int64(s.TotalDocuments)))
	fmt.Fprintf(tw, "Procesados:\t%s\n", humanize.Comma(int64(s.ProcessedDocuments)))
	fmt.Fprintf(tw, "Pendientes:\t%s\n", humanize.Comma(int64(s.PendingDocuments)))
	fmt.Fprintf(tw, "Con error:\t%s\n", humanize.Comma(int64(s.ErrorDocuments)))
	fmt.Fprintf(tw, "Tasa de procesamiento:\t%s%%\n", s.ProcessingRate.StringFixed(1))
	_ = tw.Flush()

	printCounts(w, "Por departamento", s.DepartmentStats, deptTitle)
	printCounts(w, "Por tipo", s.DocumentTypes, orDash)
	printCounts(w, "Por prioridad", s.Priorities, orDash)

	if len(s.UploadTrends) > 0 {
		fmt.Fprintln(w, "\nTendencia de subidas:")
		tw = newTable(w)
		for _, t := range s.UploadTrends {
			fmt.Fprintf(tw, "  %s\t%d\n", t.Date, t.Count)
		}
		_ = tw.Flush()
	}
}

// printCounts tabla ordenada por cantidad descendente, luego por clave.
func printCounts(w io.Writer, title string, m map[string]int, label func(string) string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	fmt.Fprintf(w, "\n%s:\n", title)
	tw := newTable(w)
	for _, k := range keys {
		fmt.Fprintf(tw, "  %s\t%d\n", label(k), m[k])
	}
	_ = tw.Flush()
}

func printUploadResult(w io.Writer, r *dto.UploadResult) {
	if r.Message != "" {
		fmt.Fprintln(w, r.Message)
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ARCHIVO\tESTADO\tTIPO\tPRIORIDAD\tDETALLE")
	for _, fr := range r.Results {
		detail := fr.DocID
		if fr.Error != "" {
			detail = fr.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", fr.Filename, fr.Status, orDash(fr.DocumentType), orDash(fr.Priority), orDash(detail))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Subidos: %d, fallidos: %d\n", r.UploadedCount, r.FailedCount)
}

func printNotifications(w io.Writer, ns []dto.Notification) {
	if len(ns) == 0 {
		fmt.Fprintln(w, "(sin avisos)")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\t\tASUNTO\tDEPARTAMENTO\tPRIORIDAD\tENVIADO")
	for _, n := range ns {
		mark := "●"
		if n.Read {
			mark = " "
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", n.ID, mark, n.Subject, deptTitle(n.Department), orDash(n.Priority), when(n.SentAt))
	}
	_ = tw.Flush()
}

func printProfile(w io.Writer, u dto.UserProfile) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Nombre:\t%s\n", u.FullName)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Rol:\t%s\n", u.Role)
	fmt.Fprintf(tw, "Departamento:\t%s\n", deptTitle(u.Department))
	_ = tw.Flush()
}
