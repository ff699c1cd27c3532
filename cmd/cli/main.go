package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/amirasaad/findash/pkg/client"
	"github.com/amirasaad/findash/pkg/config"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  users                                   list users
  user <name> <email>                     create a user
  txns [user_id]                          list transactions
  income <user_id> <date> <amount> [category]
  expense <user_id> <date> <amount> [category]
  buy <user_id> <date> <symbol> <shares> <price>
  sell <user_id> <date> <symbol> <shares> <price>
  networth <user_id>                      print the latest net worth
  seed                                    create a demo user
Environment: BACKEND_URL (default http://127.0.0.1:8000), CLI_TIMEOUT (default 30s)`

var errUsage = errors.New("invalid arguments")

func main() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	api := client.New(client.Config{
		BaseURL: config.GetEnv("BACKEND_URL", client.DefaultBaseURL),
		Timeout: config.GetEnvAsDuration("CLI_TIMEOUT", client.DefaultTimeout),
	})
	if err := run(context.Background(), api, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
		} else {
			color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, api *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	ok := color.New(color.FgGreen)
	switch cmd, rest := args[0], args[1:]; cmd {
	case "users":
		users, err := api.ListUsers(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
		return w.Flush()
	case "user":
		if len(rest) != 2 {
			return errUsage
		}
		u, err := api.CreateUser(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		ok.Fprintf(out, "Created user %d (%s)\n", u.ID, u.Email)
	case "txns":
		var userID uint
		if len(rest) > 0 {
			id, err := parseID(rest[0])
			if err != nil {
				return err
			}
			userID = id
		}
		txs, err := api.ListTransactions(ctx, userID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSER\tDATE\tTYPE\tCATEGORY\tAMOUNT\tSYMBOL")
		for _, t := range txs {
			symbol := ""
			if t.AssetSymbol != nil {
				symbol = *t.AssetSymbol
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.UserID, t.Date, t.Type, t.Category, t.Amount.StringFixed(2), symbol)
		}
		return w.Flush()
	case "income", "expense":
		if len(rest) < 3 || len(rest) > 4 {
			return errUsage
		}
		userID, err := parseID(rest[0])
		if err != nil {
			return err
		}
		tx := client.NewTransaction{UserID: userID, Date: rest[1], Type: cmd, Amount: rest[2]}
		if len(rest) == 4 {
			tx.Category = rest[3]
		}
		created, err := api.CreateTransaction(ctx, tx)
		if err != nil {
			return err
		}
		ok.Fprintf(out, "Recorded %s %s as transaction %d\n", cmd, created.Amount.StringFixed(2), created.ID)
	case "buy", "sell":
		if len(rest) != 5 {
			return errUsage
		}
		userID, err := parseID(rest[0])
		if err != nil {
			return err
		}
		shares, err := decimal.NewFromString(rest[3])
		if err != nil {
			return fmt.Errorf("invalid shares %q: %w", rest[3], errUsage)
		}
		price, err := decimal.NewFromString(rest[4])
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", rest[4], errUsage)
		}
		created, err := api.CreateTransaction(ctx, client.NewTransaction{
			UserID:       userID,
			Date:         rest[1],
			Type:         "trade",
			Category:     cmd,
			Amount:       shares.Mul(price).String(),
			AssetSymbol:  rest[2],
			Shares:       shares.String(),
			PriceAtTrade: price.String(),
		})
		if err != nil {
			return err
		}
		ok.Fprintf(out, "Recorded %s of %s %s as transaction %d\n", cmd, shares, *created.AssetSymbol, created.ID)
	case "networth":
		if len(rest) != 1 {
			return errUsage
		}
		userID, err := parseID(rest[0])
		if err != nil {
			return err
		}
		points, err := api.NetWorth(ctx, userID, "")
		if err != nil {
			return err
		}
		if len(points) == 0 {
			color.New(color.FgYellow).Fprintln(out, "No data yet. Add transactions or seed demo.")
			return nil
		}
		last := points[len(points)-1]
		fmt.Fprintf(out, "Net worth on %s: %s\n", last.Date, color.New(color.Bold).Sprintf("%.2f", last.NetWorth))
	case "seed":
		res, err := api.Seed(ctx)
		if err != nil {
			return err
		}
		ok.Fprintf(out, "Seeded demo data for user_id %d.\n", res.UserID)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
	return nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q: %w", raw, errUsage)
	}
	return uint(id), nil
}
