package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/osse101/Credence_Go/internal/domain"
)

func defaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(registerCmd{})
	r.Register(balanceCmd{})
	r.Register(historyCmd{})
	r.Register(statsCmd{})
	r.Register(adjustCmd{})
	r.Register(grantCmd{})
	r.Register(reconcileCmd{})
	r.Register(sweepCmd{})
	r.Register(poolCmd{})
	return r
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Usage() string       { return "register <username>" }
func (registerCmd) Description() string { return "Create a user with the welcome grant" }

func (c registerCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 1 {
		return errUsage{c.Usage()}
	}
	user, err := env.Services.Accounts.Register(ctx, domain.RegisterRequest{Username: args[0]})
	if err != nil {
		return err
	}
	printUsers(env, *user)
	return nil
}

type balanceCmd struct{}

func (balanceCmd) Name() string        { return "balance" }
func (balanceCmd) Usage() string       { return "balance <username>" }
func (balanceCmd) Description() string { return "Show available and locked CU and RS" }

func (c balanceCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 1 {
		return errUsage{c.Usage()}
	}
	user, err := env.Services.Accounts.GetUserByUsername(ctx, args[0])
	if err != nil {
		return err
	}
	printUsers(env, *user)
	return nil
}

type historyCmd struct{}

func (historyCmd) Name() string        { return "history" }
func (historyCmd) Usage() string       { return "history <username> [limit]" }
func (historyCmd) Description() string { return "List the newest ledger entries" }

func (c historyCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage{c.Usage()}
	}
	limit := 0
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return errUsage{c.Usage()}
		}
		limit = n
	}

	user, err := env.Services.Accounts.GetUserByUsername(ctx, args[0])
	if err != nil {
		return err
	}
	txns, err := env.Services.Accounts.History(ctx, user.ID, limit)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(env.Out)
	table.Header("When", "Type", "Amount", "Balance", "Note")
	for _, t := range txns {
		table.Append(
			t.CreatedAt.Format(timeFormat),
			string(t.Type),
			signed(t.Amount),
			strconv.FormatInt(t.BalanceAfter, 10),
			t.Note,
		)
	}
	table.Render()
	return nil
}

type statsCmd struct{}

func (statsCmd) Name() string        { return "stats" }
func (statsCmd) Usage() string       { return "stats <username>" }
func (statsCmd) Description() string { return "Show a user's forecasting record" }

func (c statsCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 1 {
		return errUsage{c.Usage()}
	}
	user, err := env.Services.Accounts.GetUserByUsername(ctx, args[0])
	if err != nil {
		return err
	}
	s, err := env.Services.Accounts.Stats(ctx, user.ID)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(env.Out)
	table.Header("Total", "Correct", "Wrong", "Refunded", "Pending", "Accuracy", "Net CU", "RS change")
	table.Append(
		strconv.Itoa(s.Total),
		strconv.Itoa(s.Correct),
		strconv.Itoa(s.Wrong),
		strconv.Itoa(s.Refunded),
		strconv.Itoa(s.Pending),
		fmt.Sprintf("%.0f%%", s.Accuracy*100),
		signed(s.NetCU),
		fmt.Sprintf("%+.2f", s.TotalRSChange),
	)
	table.Render()
	return nil
}

type adjustCmd struct{}

func (adjustCmd) Name() string        { return "adjust" }
func (adjustCmd) Usage() string       { return "adjust <username> <amount> [note]" }
func (adjustCmd) Description() string { return "Credit or debit a user's available CU" }

func (c adjustCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) < 2 {
		return errUsage{c.Usage()}
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return errUsage{c.Usage()}
	}

	user, err := env.Services.Accounts.GetUserByUsername(ctx, args[0])
	if err != nil {
		return err
	}
	txn, err := env.Services.Accounts.AdjustBalance(ctx, domain.AdjustmentRequest{
		UserID: user.ID,
		Amount: amount,
		Note:   strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "%s %s CU, balance now %d\n", user.Username, signed(txn.Amount), txn.BalanceAfter)
	return nil
}

type grantCmd struct{}

func (grantCmd) Name() string        { return "grant" }
func (grantCmd) Usage() string       { return "grant <amount> [note]" }
func (grantCmd) Description() string { return "Credit every user" }

func (c grantCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) < 1 {
		return errUsage{c.Usage()}
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errUsage{c.Usage()}
	}
	n, err := env.Services.Accounts.GrantAll(ctx, amount, strings.Join(args[1:], " "))
	if err != nil {
		return fmt.Errorf("granted %d users before failing: %w", n, err)
	}
	fmt.Fprintf(env.Out, "granted %d CU to %d users\n", amount, n)
	return nil
}

type reconcileCmd struct{}

func (reconcileCmd) Name() string        { return "reconcile" }
func (reconcileCmd) Usage() string       { return "reconcile" }
func (reconcileCmd) Description() string { return "Check every balance against its ledger" }

func (reconcileCmd) Run(ctx context.Context, env *Env, _ []string) error {
	recs, err := env.Services.Accounts.ReconcileAll(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(env.Out)
	table.Header("User", "Available", "Ledger sum", "Entries", "Status")
	unbalanced := 0
	for _, rec := range recs {
		status := statusOK
		if !rec.Balanced {
			status = statusMismatch
			unbalanced++
		}
		table.Append(
			rec.UserID,
			strconv.FormatInt(rec.CuAvailable, 10),
			strconv.FormatInt(rec.LedgerSum, 10),
			strconv.Itoa(rec.Transactions),
			status,
		)
	}
	table.Render()

	if unbalanced > 0 {
		return fmt.Errorf("%d of %d accounts are unbalanced", unbalanced, len(recs))
	}
	return nil
}

type sweepCmd struct{}

func (sweepCmd) Name() string        { return "sweep" }
func (sweepCmd) Usage() string       { return "sweep" }
func (sweepCmd) Description() string { return "Move overdue ACTIVE predictions to PENDING" }

func (sweepCmd) Run(ctx context.Context, env *Env, _ []string) error {
	n, err := env.Services.Lifecycle.TransitionExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "expired %d predictions\n", n)
	return nil
}

type poolCmd struct{}

func (poolCmd) Name() string        { return "pool" }
func (poolCmd) Usage() string       { return "pool <prediction-id>" }
func (poolCmd) Description() string { return "Show how a prediction's pool splits across sides" }

func (c poolCmd) Run(ctx context.Context, env *Env, args []string) error {
	if len(args) != 1 {
		return errUsage{c.Usage()}
	}
	pool, err := env.Services.Commitments.GetPool(ctx, args[0])
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(env.Out)
	table.Header("Side", "CU", "Commitments", "Share")
	for _, side := range pool.Sides {
		share := 0.0
		if pool.TotalPoolCU > 0 {
			share = float64(side.CuCommitted) / float64(pool.TotalPoolCU) * 100
		}
		table.Append(
			side.Choice.String(),
			strconv.FormatInt(side.CuCommitted, 10),
			strconv.Itoa(side.Commitments),
			fmt.Sprintf("%.1f%%", share),
		)
	}
	table.Footer("Total", strconv.FormatInt(pool.TotalPoolCU, 10), "", "")
	table.Render()
	return nil
}

func printUsers(env *Env, users ...domain.User) {
	table := tablewriter.NewWriter(env.Out)
	table.Header("Username", "ID", "Available", "Locked", "RS")
	for _, u := range users {
		table.Append(
			u.Username,
			u.ID,
			strconv.FormatInt(u.CuAvailable, 10),
			strconv.FormatInt(u.CuLocked, 10),
			fmt.Sprintf("%.2f", u.RS),
		)
	}
	table.Render()
}

func signed(n int64) string {
	return fmt.Sprintf("%+d", n)
}
