package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/jhoicas/idcr-client/internal/application/dto"
)

func cmdDocs(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return usagef("uso: idcr docs list|show|approve|reject|review|delete|download")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list", "ls":
		return docsList(ctx, a, rest)
	case "show":
		return docsShow(ctx, a, rest)
	case "approve":
		return docsDecide(ctx, a, rest, "approve", "approved")
	case "reject":
		return docsDecide(ctx, a, rest, "reject", "rejected")
	case "review":
		return docsReview(ctx, a, rest)
	case "delete", "rm":
		return docsDelete(ctx, a, rest)
	case "download":
		return docsDownload(ctx, a, rest)
	}
	return usagef("subcomando docs desconocido %q", sub)
}

func docsList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "docs list")
	var f dto.DocumentFilter
	fs.StringVarP(&f.Search, "search", "s", "", "texto a buscar")
	fs.StringVarP(&f.Department, "department", "d", "", "departamento")
	fs.StringVar(&f.Status, "status", "", "pending, approved, rejected")
	fs.StringVar(&f.SortBy, "sort-by", "", "uploaded_at, filename, priority, file_size")
	fs.IntVarP(&f.Limit, "limit", "n", 0, "máximo de resultados")
	if _, err := parse(fs, args, 0, "docs list [--search S] [--department D] [--status E] [--sort-by C] [--limit N]"); err != nil {
		return err
	}
	docs, err := a.docs.List(ctx, f)
	if err != nil {
		return err
	}
	printDocuments(a.out, docs)
	return nil
}

func docsShow(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "docs show")
	withText := fs.Bool("text", false, "incluye el texto extraído completo")
	rest, err := parse(fs, args, 1, "docs show <id> [--text]")
	if err != nil {
		return err
	}
	d, err := a.docs.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	printDocument(a.out, d)
	if *withText && d.ExtractedText != "" {
		fmt.Fprintf(a.out, "\nTexto extraído:\n%s\n", d.ExtractedText)
	}
	return nil
}

func docsDecide(ctx context.Context, a *app, args []string, verb, status string) error {
	fs := newFlagSet(a, "docs "+verb)
	comments := fs.StringP("comments", "c", "", "comentario de revisión")
	rest, err := parse(fs, args, 1, "docs "+verb+" <id> [--comments C]")
	if err != nil {
		return err
	}
	if err := a.docs.Review(ctx, rest[0], dto.ReviewRequest{Status: status, Comments: *comments}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Documento %s: %s\n", rest[0], status)
	return nil
}

func docsReview(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "docs review")
	status := fs.String("status", "", "approved | rejected")
	comments := fs.StringP("comments", "c", "", "comentario de revisión")
	rest, err := parse(fs, args, 1, "docs review <id> --status approved|rejected [--comments C]")
	if err != nil {
		return err
	}
	if err := a.docs.Review(ctx, rest[0], dto.ReviewRequest{Status: *status, Comments: *comments}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Documento %s: %s\n", rest[0], *status)
	return nil
}

func docsDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "docs delete")
	yes := fs.BoolP("yes", "y", false, "no pedir confirmación")
	rest, err := parse(fs, args, 1, "docs delete <id> [--yes]")
	if err != nil {
		return err
	}
	id := rest[0]
	if !*yes && !a.confirm(fmt.Sprintf("¿Eliminar el documento %s?", id)) {
		fmt.Fprintln(a.out, "Cancelado")
		return nil
	}
	if err := a.docs.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Documento %s eliminado\n", id)
	return nil
}

// docsDownload escribe a un temporal junto al destino y renombra al terminar.
func docsDownload(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "docs download")
	output := fs.StringP("output", "o", "", "archivo de destino (defecto: nombre original)")
	rest, err := parse(fs, args, 1, "docs download <id> [-o archivo]")
	if err != nil {
		return err
	}
	id := rest[0]
	dest := *output
	if dest == "" {
		d, err := a.docs.Get(ctx, id)
		if err != nil {
			return err
		}
		dest = filepath.Base(d.Filename)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".idcr-download-*")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := a.docs.Download(ctx, id, tmp); err != nil {
		tmp.Close()
		return err
	}
	st, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("guardar %s: %w", dest, err)
	}
	fmt.Fprintf(a.out, "Descargado %s (%s)\n", dest, humanize.IBytes(uint64(st.Size())))
	return nil
}
