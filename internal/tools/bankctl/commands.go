package bankctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"github.com/louisbranch/demobank/internal/bank/service"
	"github.com/shopspring/decimal"
)

type runFunc func(ctx context.Context, bank *service.Bank, p printer) error

// command binds its flags and returns the action to run once they are parsed.
type command struct {
	name    string
	summary string
	bind    func(fs *flag.FlagSet) runFunc
}

var commands = []command{
	{name: "profile", summary: "show the account profile", bind: bindProfile},
	{name: "update-profile", summary: "change profile fields", bind: bindUpdateProfile},
	{name: "transactions", summary: "list transactions", bind: bindTransactions},
	{name: "transfer", summary: "send money from the balance", bind: bindTransfer},
	{name: "cards", summary: "list cards", bind: bindCards},
	{name: "freeze", summary: "toggle a card's frozen flag", bind: bindFreeze},
	{name: "loans", summary: "list loan applications", bind: bindLoans},
	{name: "apply-loan", summary: "submit a loan application", bind: bindApplyLoan},
	{name: "loan-status", summary: "approve or reject a loan", bind: bindLoanStatus},
	{name: "kyc", summary: "list KYC requests", bind: bindKYC},
	{name: "submit-kyc", summary: "queue a KYC request", bind: bindSubmitKYC},
	{name: "kyc-status", summary: "approve or reject a KYC request", bind: bindKYCStatus},
	{name: "posts", summary: "list blog posts", bind: bindPosts},
	{name: "post", summary: "show one blog post", bind: bindPost},
	{name: "publish", summary: "publish a blog post", bind: bindPublish},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func bindProfile(*flag.FlagSet) runFunc {
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		profile, err := bank.Ledger.Profile(ctx)
		if err != nil {
			return err
		}
		return p.profile(profile)
	}
}

func bindUpdateProfile(fs *flag.FlagSet) runFunc {
	var name, email, balance, savings, status, kycStatus optionalString
	fs.Var(&name, "name", "display name")
	fs.Var(&email, "email", "email address")
	fs.Var(&balance, "balance", "balance amount")
	fs.Var(&savings, "savings", "savings amount")
	fs.Var(&status, "status", "account status: active or suspended")
	fs.Var(&kycStatus, "kyc-status", "kyc status: verified, pending or rejected")
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		var patch domain.ProfilePatch
		patch.Name = name.ptr()
		patch.Email = email.ptr()
		var err error
		if patch.Balance, err = balance.decimal("balance"); err != nil {
			return err
		}
		if patch.Savings, err = savings.decimal("savings"); err != nil {
			return err
		}
		if status.set {
			s := domain.AccountStatus(status.value)
			patch.Status = &s
		}
		if kycStatus.set {
			s := domain.KYCStatus(kycStatus.value)
			patch.KYCStatus = &s
		}
		profile, err := bank.Ledger.UpdateProfile(ctx, patch)
		if err != nil {
			return err
		}
		return p.profile(profile)
	}
}

func bindTransactions(fs *flag.FlagSet) runFunc {
	filter := fs.String("filter", "", `filter expression, e.g. type = "debit"`)
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		txs, err := bank.Ledger.Transactions(ctx, *filter)
		if err != nil {
			return err
		}
		return p.transactions(txs)
	}
}

func bindTransfer(fs *flag.FlagSet) runFunc {
	amount := fs.String("amount", "", "amount to send")
	to := fs.String("to", "", "recipient name")
	note := fs.String("note", "", "optional note")
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		value, err := parseAmount("amount", *amount)
		if err != nil {
			return err
		}
		tx, err := bank.Ledger.Transfer(ctx, domain.TransferInput{Amount: value, Recipient: *to, Note: *note})
		if err != nil {
			return err
		}
		return p.transactions([]domain.Transaction{tx})
	}
}

func bindCards(*flag.FlagSet) runFunc {
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		cards, err := bank.Cards.Cards(ctx)
		if err != nil {
			return err
		}
		return p.cards(cards)
	}
}

func bindFreeze(fs *flag.FlagSet) runFunc {
	cardID := fs.String("card", "", "card id")
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		card, err := bank.Cards.ToggleFreeze(ctx, *cardID)
		if err != nil {
			return err
		}
		return p.cards([]domain.Card{card})
	}
}

func bindLoans(*flag.FlagSet) runFunc {
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		loans, err := bank.Loans.Loans(ctx)
		if err != nil {
			return err
		}
		return p.loans(loans)
	}
}

func bindApplyLoan(fs *flag.FlagSet) runFunc {
	amount := fs.String("amount", "", "requested amount")
	loanType := fs.String("type", "", "loan product, e.g. Personal")
	purpose := fs.String("purpose", "", "what the loan is for")
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		value, err := parseAmount("amount", *amount)
		if err != nil {
			return err
		}
		loan, err := bank.Loans.Apply(ctx, domain.LoanInput{Amount: value, Type: *loanType, Purpose: *purpose})
		if err != nil {
			return err
		}
		return p.loans([]domain.LoanApplication{loan})
	}
}

func bindLoanStatus(fs *flag.FlagSet) runFunc {
	loanID := fs.String("id", "", "loan id")
	status := fs.String("status", "", "approved or rejected")
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		target, err := parseStatus(*status)
		if err != nil {
			return err
		}
		loan, err := bank.Loans.UpdateStatus(ctx, *loanID, target)
		if err != nil {
			return err
		}
		return p.loans([]domain.LoanApplication{loan})
	}
}

func bindKYC(fs *flag.FlagSet) runFunc {
	filter := fs.String("filter", "", `filter expression, e.g. status = "pending"`)
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		requests, err := bank.Compliance.Search(ctx, *filter)
		if err != nil {
			return err
		}
		return p.kyc(requests)
	}
}

func bindSubmitKYC(fs *flag.FlagSet) runFunc {
	user := fs.String("user", "", "customer name")
	email := fs.String("email", "", "customer email")
	kycType := fs.String("type", "", "document type, e.g. BVN")
	details := fs.String("details", "", "free-form details")
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		request, err := bank.Compliance.Submit(ctx, domain.KYCInput{User: *user, Email: *email, Type: *kycType, Details: *details})
		if err != nil {
			return err
		}
		return p.kyc([]domain.KYCRequest{request})
	}
}

func bindKYCStatus(fs *flag.FlagSet) runFunc {
	requestID := fs.String("id", "", "kyc request id")
	status := fs.String("status", "", "approved or rejected")
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		target, err := parseStatus(*status)
		if err != nil {
			return err
		}
		request, err := bank.Compliance.UpdateStatus(ctx, *requestID, target)
		if err != nil {
			return err
		}
		return p.kyc([]domain.KYCRequest{request})
	}
}

func bindPosts(fs *flag.FlagSet) runFunc {
	filter := fs.String("filter", "", `filter expression, e.g. category = "Security"`)
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		posts, err := bank.Content.Search(ctx, *filter)
		if err != nil {
			return err
		}
		return p.posts(posts)
	}
}

func bindPost(fs *flag.FlagSet) runFunc {
	postID := fs.String("id", "", "post id")
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		post, err := bank.Content.Get(ctx, *postID)
		if err != nil {
			return err
		}
		return p.post(post)
	}
}

func bindPublish(fs *flag.FlagSet) runFunc {
	var input domain.PostInput
	fs.StringVar(&input.Title, "title", "", "headline")
	fs.StringVar(&input.Excerpt, "excerpt", "", "short summary")
	fs.StringVar(&input.Content, "content", "", "article body")
	fs.StringVar(&input.Category, "category", "", "category, e.g. News")
	fs.StringVar(&input.Image, "image", "", "image URL")
	return func(ctx context.Context, bank *service.Bank, p printer) error {
		post, err := bank.Content.Publish(ctx, input)
		if err != nil {
			return err
		}
		return p.post(post)
	}
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, fmt.Errorf("-%s is required", field)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("-%s: %w", field, err)
	}
	return value, nil
}

func parseStatus(raw string) (domain.ReviewStatus, error) {
	status, ok := domain.ParseReviewStatus(raw)
	if !ok {
		return "", errors.New("-status must be approved or rejected")
	}
	return status, nil
}

// optionalString records whether a flag was given at all.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

func (o *optionalString) decimal(field string) (*decimal.Decimal, error) {
	if !o.set {
		return nil, nil
	}
	value, err := parseAmount(field, o.value)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
