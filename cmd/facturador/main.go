package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"facturador/internal/client"
	"facturador/internal/config"
	"facturador/internal/domain"
	"facturador/internal/export"
	"facturador/internal/filter"
	"facturador/internal/form"
	"facturador/internal/session"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "facturador",
		Usage: "digitize invoices: upload, review, confirm, and manage the stored collection",
		Commands: []*cli.Command{
			uploadCommand(),
			reviewCommand(),
			listCommand(),
			showCommand(),
			editCommand(),
			deleteCommand(),
			exportCommand(),
		},
	}
}

func newClient() (*client.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return client.New(&cfg.API), cfg, nil
}

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "upload a document and print the extracted fields",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: facturador upload FILE", 2)
			}
			api, _, err := newClient()
			if err != nil {
				return err
			}
			path := c.Args().First()
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer f.Close()

			inv, err := api.Upload(c.Context, f.Name(), f)
			if err != nil {
				return err
			}
			printInvoice(c.App.Writer, inv)
			return nil
		},
	}
}

func reviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "upload a document, edit the extracted fields interactively, and confirm",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: facturador review FILE", 2)
			}
			api, _, err := newClient()
			if err != nil {
				return err
			}
			path := c.Args().First()
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer f.Close()

			sess := session.New(api)
			if err := sess.UploadAndExtract(c.Context, f.Name(), f); err != nil {
				return err
			}
			return editLoop(c.Context, c.App.Writer, sess.Form(),
				func(ctx context.Context) error { return sess.ConfirmDraft(ctx) },
				func() { _ = sess.CancelReview() },
			)
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list stored invoices, optionally filtered and exported locally",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "match invoice number or legal name"},
			&cli.StringFlag{Name: "date", Usage: "exact date, YYYY-MM-DD"},
			&cli.StringFlag{Name: "provider", Usage: "match legal name"},
			&cli.StringFlag{Name: "csv", Usage: "also write the filtered list to a CSV `FILE`"},
			&cli.StringFlag{Name: "xlsx", Usage: "also write the filtered list to an XLSX `FILE`"},
		},
		Action: func(c *cli.Context) error {
			api, _, err := newClient()
			if err != nil {
				return err
			}
			invoices, err := api.List(c.Context)
			if err != nil {
				return err
			}
			filtered := filter.Apply(invoices, filter.Criteria{
				Search:   c.String("search"),
				Date:     c.String("date"),
				Provider: c.String("provider"),
			})

			for i := range filtered {
				inv := &filtered[i]
				fmt.Fprintf(c.App.Writer, "%6d  %-16s %-10s %-30s %s\n",
					inv.ID, inv.InvoiceNumber, inv.Date, inv.IssuerLegalName, inv.Total)
			}
			fmt.Fprintf(c.App.Writer, "%d of %d invoice(s)\n", len(filtered), len(invoices))

			if out := c.String("csv"); out != "" {
				if err := writeCSVFile(out, filtered); err != nil {
					return err
				}
			}
			if out := c.String("xlsx"); out != "" {
				data, err := export.XLSXBytes(filtered)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", out, err)
				}
			}
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print one stored invoice",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := parseIDArg(c)
			if err != nil {
				return err
			}
			api, _, err := newClient()
			if err != nil {
				return err
			}
			inv, err := api.Get(c.Context, id)
			if err != nil {
				return err
			}
			printInvoice(c.App.Writer, inv)
			return nil
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "edit one stored invoice interactively",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := parseIDArg(c)
			if err != nil {
				return err
			}
			api, _, err := newClient()
			if err != nil {
				return err
			}
			inv, err := api.Get(c.Context, id)
			if err != nil {
				return err
			}
			ctrl := form.NewController(api, *inv)
			return editLoop(c.Context, c.App.Writer, ctrl, ctrl.Submit, func() {})
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete one stored invoice",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := parseIDArg(c)
			if err != nil {
				return err
			}
			api, _, err := newClient()
			if err != nil {
				return err
			}
			if err := api.Delete(c.Context, id); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "invoice %d deleted\n", id)
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "download the backend's export of the stored collection",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: "csv", Usage: "pdf or csv"},
			&cli.StringFlag{Name: "out", Usage: "output `FILE` (default: dated name in the working directory)"},
		},
		Action: func(c *cli.Context) error {
			api, cfg, err := newClient()
			if err != nil {
				return err
			}
			format := c.String("format")
			if format != "pdf" && format != "csv" {
				return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
			}
			out := c.String("out")
			if out == "" {
				out = export.BuildFilename(cfg.Export.FilenamePrefix, format)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()
			if err := api.Export(c.Context, format, f); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "exported to %s\n", out)
			return nil
		},
	}
}

func parseIDArg(c *cli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, cli.Exit("expected exactly one invoice ID", 2)
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid invoice ID %q", c.Args().First())
	}
	return id, nil
}

// editLoop runs the interactive field-editing prompt until the draft is
// submitted successfully or abandoned.
func editLoop(ctx context.Context, out io.Writer, ctrl *form.Controller, submit func(context.Context) error, cancel func()) error {
	printDraft(out, ctrl)
	fmt.Fprintln(out, `commands: set FIELD VALUE | item INDEX FIELD VALUE | show | confirm | cancel`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			cancel()
			return scanner.Err()
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "show":
			printDraft(out, ctrl)
		case "set":
			if len(args) < 3 {
				fmt.Fprintln(out, "usage: set FIELD VALUE")
				continue
			}
			if !validField(args[1]) {
				fmt.Fprintf(out, "unknown field %q\n", args[1])
				continue
			}
			ctrl.SetField(args[1], strings.Join(args[2:], " "))
		case "item":
			if len(args) < 4 {
				fmt.Fprintln(out, "usage: item INDEX FIELD VALUE")
				continue
			}
			idx, err := strconv.Atoi(args[1])
			if err != nil || idx < 0 || idx >= len(ctrl.Draft().LineItems) {
				fmt.Fprintf(out, "item index out of range: %s\n", args[1])
				continue
			}
			if !validItemField(args[2]) {
				fmt.Fprintf(out, "unknown item field %q\n", args[2])
				continue
			}
			ctrl.SetLineItem(idx, args[2], strings.Join(args[3:], " "))
		case "confirm":
			err := submit(ctx)
			if err == nil {
				fmt.Fprintln(out, "invoice registered")
				return nil
			}
			var vErr *client.ValidationError
			var cErr *client.ConflictError
			if errors.As(err, &vErr) || errors.As(err, &cErr) {
				printDraft(out, ctrl)
				continue
			}
			fmt.Fprintln(out, form.GenericFailureNotice)
		case "cancel":
			cancel()
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n", args[0])
		}
	}
}

func validField(name string) bool {
	switch name {
	case domain.FieldInvoiceType, domain.FieldIssuerLegalName, domain.FieldIssuerTaxID,
		domain.FieldInvoiceNumber, domain.FieldDate, domain.FieldTotal:
		return true
	}
	return false
}

func validItemField(name string) bool {
	switch name {
	case domain.ItemFieldDescription, domain.ItemFieldQuantity, domain.ItemFieldSubtotal:
		return true
	}
	return false
}

func printDraft(out io.Writer, ctrl *form.Controller) {
	d := ctrl.Draft()
	errs := ctrl.FieldErrors()

	line := func(name, value string) {
		fmt.Fprintf(out, "  %-16s %s", name, value)
		if msg, ok := errs[name]; ok {
			fmt.Fprintf(out, "   <- %s", msg)
		}
		fmt.Fprintln(out)
	}
	line(domain.FieldInvoiceNumber, d.InvoiceNumber)
	line(domain.FieldInvoiceType, d.InvoiceType)
	line(domain.FieldDate, d.Date)
	line(domain.FieldIssuerLegalName, d.IssuerLegalName)
	line(domain.FieldIssuerTaxID, d.IssuerTaxID)
	line(domain.FieldTotal, d.Total)

	for i, it := range d.LineItems {
		fmt.Fprintf(out, "  item %d:\n", i)
		itemLine := func(field, value string) {
			fmt.Fprintf(out, "    %-14s %s", field, value)
			if msg, ok := errs[fmt.Sprintf("lineItems.%d.%s", i, field)]; ok {
				fmt.Fprintf(out, "   <- %s", msg)
			}
			fmt.Fprintln(out)
		}
		itemLine(domain.ItemFieldDescription, it.Description)
		itemLine(domain.ItemFieldQuantity, it.Quantity)
		itemLine(domain.ItemFieldSubtotal, it.Subtotal)
	}
	if notice := ctrl.Notice(); notice != "" {
		fmt.Fprintf(out, "  !! %s\n", notice)
	}
}

func printInvoice(out io.Writer, inv *domain.Invoice) {
	fmt.Fprintf(out, "invoice %d\n", inv.ID)
	fmt.Fprintf(out, "  %-16s %s\n", domain.FieldInvoiceNumber, inv.InvoiceNumber)
	fmt.Fprintf(out, "  %-16s %s\n", domain.FieldInvoiceType, inv.InvoiceType)
	fmt.Fprintf(out, "  %-16s %s\n", domain.FieldDate, inv.Date)
	fmt.Fprintf(out, "  %-16s %s\n", domain.FieldIssuerLegalName, inv.IssuerLegalName)
	fmt.Fprintf(out, "  %-16s %s\n", domain.FieldIssuerTaxID, inv.IssuerTaxID)
	for i, it := range inv.LineItems {
		fmt.Fprintf(out, "  item %d: %s x%s = %s\n", i, it.Description, it.Quantity, it.Subtotal)
	}
	fmt.Fprintf(out, "  %-16s %s\n", domain.FieldTotal, inv.Total)
}

func writeCSVFile(path string, invoices []domain.Invoice) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(export.BOM); err != nil {
		return err
	}
	w := export.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteInvoices(invoices); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
