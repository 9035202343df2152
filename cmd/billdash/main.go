// Command billdash is a terminal front end for the billing dashboard:
// it keeps a local encrypted session, shows invoice metrics with cached
// fallback, and submits payments.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/okabrera/medbill"
	"github.com/okabrera/medbill/adapters/file"
	"github.com/okabrera/medbill/config"
	"github.com/okabrera/medbill/pkg/money"
	"github.com/okabrera/medbill/services"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("medbill: %v", err)
	}
	if cfg.Passphrase == "" {
		log.Fatal("medbill: MEDBILL_PASSPHRASE must be set")
	}

	store, err := file.New(cfg.StateDir, cfg.Passphrase)
	if err != nil {
		log.Fatalf("medbill: %v", err)
	}

	client, err := medbill.New(medbill.Config{
		BaseURL:        cfg.APIBaseURL,
		Store:          store,
		CacheTTL:       cfg.CacheTTL,
		CurrencySymbol: cfg.CurrencySymbol,
	})
	if err != nil {
		log.Fatalf("medbill: %v", err)
	}

	ctx := context.Background()
	if err := run(ctx, client, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("medbill: %v", err)
	}
}

func run(ctx context.Context, client *medbill.Client, command string, args []string) error {
	// Every command except login starts from the persisted session.
	if command != "login" {
		client.Session.Restore(ctx)
	}

	switch command {
	case "login":
		return cmdLogin(ctx, client)
	case "logout":
		client.Session.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return cmdWhoami(client)
	case "dashboard":
		return cmdDashboard(ctx, client, args)
	case "invoices":
		return cmdInvoices(ctx, client)
	case "audit":
		return cmdAudit(ctx, client)
	case "pay":
		return cmdPay(ctx, client, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdLogin(ctx context.Context, client *medbill.Client) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	fmt.Print("Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	err = client.Session.Login(ctx, strings.TrimSpace(username), strings.TrimSpace(password))
	if errors.Is(err, medbill.ErrLoginFailed) {
		return errors.New("login failed, check your credentials and connection")
	}
	if err != nil {
		return err
	}

	if user, ok := client.Session.CurrentUser(); ok {
		fmt.Printf("Welcome, %s (%s).\n", user.Name, user.Role)
	}
	return nil
}

func cmdWhoami(client *medbill.Client) error {
	user, ok := client.Session.CurrentUser()
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", user.Name, user.Email, user.Role)
	if exp, ok := client.Session.ExpiresAt(); ok {
		fmt.Printf("Access token expires %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func cmdDashboard(ctx context.Context, client *medbill.Client, args []string) error {
	flags := flag.NewFlagSet("dashboard", flag.ExitOnError)
	force := flags.Bool("force", false, "skip the cached snapshot and fetch fresh data")
	flags.Parse(args)

	view, err := client.Dashboard.Refresh(ctx, *force)
	switch {
	case errors.Is(err, medbill.ErrUnauthorized):
		return errors.New("session expired, run 'billdash login'")
	case errors.Is(err, medbill.ErrNotAuthenticated):
		return errors.New("not signed in, run 'billdash login'")
	case err != nil:
		// Nothing fetchable and nothing cached: show the zeroed
		// dashboard rather than dying on a blank screen.
		view = client.Dashboard.EmptyView()
		fmt.Println("! Billing service unreachable and no local snapshot; showing empty totals.")
	}

	printView(view)
	return nil
}

func printView(view *medbill.DashboardView) {
	if view.Stale && view.Source == services.SourceCached {
		fmt.Printf("(cached snapshot from %s)\n", view.FetchedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Printf("Outstanding: %s\n", view.Formatted.Outstanding)
	fmt.Printf("Paid:        %s\n", view.Formatted.Paid)
	fmt.Printf("Total:       %s\n", view.Formatted.Total)
}

func cmdInvoices(ctx context.Context, client *medbill.Client) error {
	view, err := client.Dashboard.Refresh(ctx, true)
	if err != nil {
		return err
	}
	for _, inv := range view.Records {
		amount := "-"
		if inv.AmountCents != nil {
			amount = money.Format(*inv.AmountCents, "$")
		}
		fmt.Printf("%-12s %-10s %10s  %s\n", inv.ID, inv.Status, amount, inv.Number)
	}
	return nil
}

func cmdAudit(ctx context.Context, client *medbill.Client) error {
	entries, err := client.Audit.List(ctx)
	if errors.Is(err, medbill.ErrUnauthorized) {
		return errors.New("session expired, run 'billdash login'")
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %-20s %-24s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Actor, e.Action, e.Entity)
	}
	return nil
}

func cmdPay(ctx context.Context, client *medbill.Client, args []string) error {
	flags := flag.NewFlagSet("pay", flag.ExitOnError)
	invoice := flags.String("invoice", "", "invoice id to pay")
	amount := flags.Int64("amount", 0, "amount in cents")
	method := flags.String("method", "card", "payment method")
	flags.Parse(args)

	if *invoice == "" || *amount <= 0 {
		return errors.New("pay requires -invoice and a positive -amount")
	}

	payment, key, err := client.Payments.Submit(ctx, *invoice, *amount, *method)
	if errors.Is(err, medbill.ErrUnauthorized) {
		return errors.New("session expired, run 'billdash login'")
	}
	if err != nil {
		return fmt.Errorf("payment not confirmed (retry key %s): %w", key, err)
	}

	fmt.Printf("Payment %s recorded against invoice %s.\n", payment.ID, payment.InvoiceID)
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: billdash <command>

commands:
  login       sign in and persist the session
  logout      clear the persisted session
  whoami      show the signed-in user
  dashboard   show financial metrics (-force skips the cache)
  invoices    list billing records
  audit       show the audit log
  pay         submit a payment (-invoice, -amount, -method)`)
}
