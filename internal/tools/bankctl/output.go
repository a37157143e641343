package bankctl

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"github.com/louisbranch/demobank/internal/platform/currency"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02 15:04"

// printer renders command results as aligned text or as JSON.
type printer struct {
	out  io.Writer
	json bool
}

func newPrinter(out io.Writer, jsonOutput bool) printer {
	return printer{out: out, json: jsonOutput}
}

func (p printer) encode(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p printer) table(header string, rows [][]any) error {
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func money(amount decimal.Decimal) string {
	return currency.Format(amount, currency.NGN)
}

func date(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func (p printer) profile(profile domain.UserProfile) error {
	if p.json {
		return p.encode(profile)
	}
	return p.table("FIELD\tVALUE", [][]any{
		{"id", profile.ID},
		{"name", profile.Name},
		{"email", profile.Email},
		{"balance", money(profile.Balance)},
		{"savings", money(profile.Savings)},
		{"status", profile.Status},
		{"kyc", profile.KYCStatus},
		{"transactions", len(profile.Transactions)},
		{"cards", len(profile.Cards)},
		{"loans", len(profile.Loans)},
	})
}

func (p printer) transactions(txs []domain.Transaction) error {
	if p.json {
		return p.encode(txs)
	}
	rows := make([][]any, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []any{tx.Reference, tx.Type, money(tx.Amount), tx.Status, date(tx.Timestamp), tx.Description})
	}
	return p.table("REFERENCE\tTYPE\tAMOUNT\tSTATUS\tDATE\tDESCRIPTION", rows)
}

func (p printer) cards(cards []domain.Card) error {
	if p.json {
		return p.encode(cards)
	}
	rows := make([][]any, 0, len(cards))
	for _, card := range cards {
		state := "active"
		if card.IsFrozen {
			state = "frozen"
		}
		rows = append(rows, []any{card.ID, card.Type, card.Number, card.Expiry, state})
	}
	return p.table("ID\tTYPE\tNUMBER\tEXPIRY\tSTATE", rows)
}

func (p printer) loans(loans []domain.LoanApplication) error {
	if p.json {
		return p.encode(loans)
	}
	rows := make([][]any, 0, len(loans))
	for _, loan := range loans {
		rows = append(rows, []any{loan.ID, loan.Type, money(loan.Amount), loan.Status, loan.Score, date(loan.Date)})
	}
	return p.table("ID\tTYPE\tAMOUNT\tSTATUS\tSCORE\tDATE", rows)
}

func (p printer) kyc(requests []domain.KYCRequest) error {
	if p.json {
		return p.encode(requests)
	}
	rows := make([][]any, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, []any{r.ID, r.User, r.Email, r.Type, r.Status, date(r.Date)})
	}
	return p.table("ID\tUSER\tEMAIL\tTYPE\tSTATUS\tDATE", rows)
}

func (p printer) posts(posts []domain.BlogPost) error {
	if p.json {
		return p.encode(posts)
	}
	rows := make([][]any, 0, len(posts))
	for _, post := range posts {
		rows = append(rows, []any{post.ID, post.Category, date(post.Date), post.Title})
	}
	return p.table("ID\tCATEGORY\tDATE\tTITLE", rows)
}

func (p printer) post(post domain.BlogPost) error {
	if p.json {
		return p.encode(post)
	}
	_, err := fmt.Fprintf(p.out, "%s\n%s | %s | %s\n\n%s\n\n%s\n",
		post.Title, post.Category, post.Author, date(post.Date), post.Excerpt, post.Content)
	return err
}
