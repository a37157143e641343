// Package seed provides the deterministic default dataset written on first
// access to an absent document.
package seed

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type dataset struct {
	Profile     profileFile `yaml:"profile"`
	Posts       []postFile  `yaml:"posts"`
	KYCRequests []kycFile   `yaml:"kyc_requests"`
}

type profileFile struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Email        string            `yaml:"email"`
	Balance      string            `yaml:"balance"`
	Savings      string            `yaml:"savings"`
	Status       string            `yaml:"status"`
	KYCStatus    string            `yaml:"kyc_status"`
	Transactions []transactionFile `yaml:"transactions"`
	Cards        []cardFile        `yaml:"cards"`
	Loans        []loanFile        `yaml:"loans"`
}

type transactionFile struct {
	ID          string    `yaml:"id"`
	Type        string    `yaml:"type"`
	Amount      string    `yaml:"amount"`
	Description string    `yaml:"description"`
	Timestamp   time.Time `yaml:"timestamp"`
	Status      string    `yaml:"status"`
	Reference   string    `yaml:"reference"`
}

type cardFile struct {
	ID       string `yaml:"id"`
	Type     string `yaml:"type"`
	Number   string `yaml:"number"`
	Expiry   string `yaml:"expiry"`
	IsFrozen bool   `yaml:"is_frozen"`
}

type loanFile struct {
	ID        string    `yaml:"id"`
	Applicant string    `yaml:"applicant"`
	Amount    string    `yaml:"amount"`
	Type      string    `yaml:"type"`
	Purpose   string    `yaml:"purpose"`
	Status    string    `yaml:"status"`
	Date      time.Time `yaml:"date"`
	Score     int       `yaml:"score"`
}

type postFile struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Excerpt  string    `yaml:"excerpt"`
	Content  string    `yaml:"content"`
	Date     time.Time `yaml:"date"`
	Category string    `yaml:"category"`
	Image    string    `yaml:"image"`
	Author   string    `yaml:"author"`
}

type kycFile struct {
	ID      string    `yaml:"id"`
	User    string    `yaml:"user"`
	Email   string    `yaml:"email"`
	Type    string    `yaml:"type"`
	Status  string    `yaml:"status"`
	Date    time.Time `yaml:"date"`
	Details string    `yaml:"details"`
}

type loaded struct {
	profile domain.UserProfile
	posts   []domain.BlogPost
	kyc     []domain.KYCRequest
}

var load = sync.OnceValues(func() (loaded, error) {
	return parse(seedYAML)
})

// Profile returns the default demo profile.
func Profile() (domain.UserProfile, error) {
	data, err := load()
	if err != nil {
		return domain.UserProfile{}, err
	}
	return data.profile.Clone(), nil
}

// Posts returns the default articles, newest first.
func Posts() ([]domain.BlogPost, error) {
	data, err := load()
	if err != nil {
		return nil, err
	}
	return append([]domain.BlogPost(nil), data.posts...), nil
}

// KYCRequests returns the default compliance queue.
func KYCRequests() ([]domain.KYCRequest, error) {
	data, err := load()
	if err != nil {
		return nil, err
	}
	return append([]domain.KYCRequest(nil), data.kyc...), nil
}

func parse(raw []byte) (loaded, error) {
	var file dataset
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return loaded{}, fmt.Errorf("parse seed dataset: %w", err)
	}

	profile, err := file.Profile.toDomain()
	if err != nil {
		return loaded{}, fmt.Errorf("seed profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return loaded{}, fmt.Errorf("seed profile: %w", err)
	}
	profile = profile.WithCanonicalMoney()

	posts := make([]domain.BlogPost, 0, len(file.Posts))
	for _, p := range file.Posts {
		posts = append(posts, domain.BlogPost{
			ID:       p.ID,
			Title:    p.Title,
			Excerpt:  p.Excerpt,
			Content:  p.Content,
			Date:     p.Date.UTC(),
			Category: p.Category,
			Image:    p.Image,
			Author:   p.Author,
		})
	}
	if err := domain.ValidatePosts(posts); err != nil {
		return loaded{}, fmt.Errorf("seed posts: %w", err)
	}

	requests := make([]domain.KYCRequest, 0, len(file.KYCRequests))
	for _, k := range file.KYCRequests {
		requests = append(requests, domain.KYCRequest{
			ID:      k.ID,
			User:    k.User,
			Email:   k.Email,
			Type:    k.Type,
			Status:  domain.ReviewStatus(k.Status),
			Date:    k.Date.UTC(),
			Details: k.Details,
		})
	}
	if err := domain.ValidateKYCRequests(requests); err != nil {
		return loaded{}, fmt.Errorf("seed kyc requests: %w", err)
	}

	return loaded{profile: profile, posts: posts, kyc: requests}, nil
}

func (p profileFile) toDomain() (domain.UserProfile, error) {
	balance, err := decimal.NewFromString(p.Balance)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("balance: %w", err)
	}
	savings, err := decimal.NewFromString(p.Savings)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("savings: %w", err)
	}

	profile := domain.UserProfile{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		Balance:      balance,
		Savings:      savings,
		Status:       domain.AccountStatus(p.Status),
		KYCStatus:    domain.KYCStatus(p.KYCStatus),
		Transactions: make([]domain.Transaction, 0, len(p.Transactions)),
		Cards:        make([]domain.Card, 0, len(p.Cards)),
		Loans:        make([]domain.LoanApplication, 0, len(p.Loans)),
	}
	for _, t := range p.Transactions {
		txAmount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return domain.UserProfile{}, fmt.Errorf("transaction %s amount: %w", t.ID, err)
		}
		profile.Transactions = append(profile.Transactions, domain.Transaction{
			ID:          t.ID,
			Type:        domain.TransactionType(t.Type),
			Amount:      txAmount,
			Description: t.Description,
			Timestamp:   t.Timestamp.UTC(),
			Status:      domain.TransactionStatus(t.Status),
			Reference:   t.Reference,
		})
	}
	for _, c := range p.Cards {
		profile.Cards = append(profile.Cards, domain.Card{
			ID:       c.ID,
			Type:     domain.CardType(c.Type),
			Number:   c.Number,
			Expiry:   c.Expiry,
			IsFrozen: c.IsFrozen,
		})
	}
	for _, l := range p.Loans {
		loanAmount, err := decimal.NewFromString(l.Amount)
		if err != nil {
			return domain.UserProfile{}, fmt.Errorf("loan %s amount: %w", l.ID, err)
		}
		profile.Loans = append(profile.Loans, domain.LoanApplication{
			ID:        l.ID,
			Applicant: l.Applicant,
			Amount:    loanAmount,
			Type:      l.Type,
			Purpose:   l.Purpose,
			Status:    domain.ReviewStatus(l.Status),
			Date:      l.Date.UTC(),
			Score:     l.Score,
		})
	}
	return profile, nil
}
