package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/idcr-client/internal/application/dto"
)

func cmdNotifications(ctx context.Context, a *app, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "list", "ls":
		fs := newFlagSet(a, "notifications list")
		var page dto.PageRequest
		fs.IntVar(&page.Page, "page", 1, "página")
		fs.IntVar(&page.PageSize, "page-size", 10, "avisos por página")
		if _, err := parse(fs, args, 0, "notifications list [--page N] [--page-size N]"); err != nil {
			return err
		}
		ns, err := a.notifs.List(ctx, page)
		if err != nil {
			return err
		}
		printNotifications(a.out, ns)
		return nil

	case "read":
		rest, err := parse(newFlagSet(a, "notifications read"), args, 1, "notifications read <id>")
		if err != nil {
			return err
		}
		if err := a.notifs.MarkAsRead(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Aviso %s marcado como leído\n", rest[0])
		return nil

	case "unread":
		if _, err := parse(newFlagSet(a, "notifications unread"), args, 0, "notifications unread"); err != nil {
			return err
		}
		n, err := a.notifs.UnreadCount(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%d sin leer\n", n)
		return nil
	}
	return usagef("subcomando notifications desconocido %q", sub)
}
