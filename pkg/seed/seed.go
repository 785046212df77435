// Package seed loads the catalog, sellers and lotteries from a YAML file.
// Records are upserted by name or code, so a file can be applied repeatedly.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
)

type Catalog struct {
	Products  []Product `yaml:"products"`
	Sellers   []Seller  `yaml:"sellers"`
	Lotteries []Lottery `yaml:"lotteries"`
}

type Product struct {
	Name        string `yaml:"name"`
	Grade       int    `yaml:"grade"`
	Major       string `yaml:"major"`
	Description string `yaml:"description"`
	Price       int    `yaml:"price"`
	Active      *bool  `yaml:"active"`
}

type Seller struct {
	Name       string `yaml:"name"`
	TelegramID int64  `yaml:"telegram_id"`
	Phone      string `yaml:"phone"`
	Active     *bool  `yaml:"active"`
	Codes      []Code `yaml:"codes"`
}

type Code struct {
	Code        string `yaml:"code"`
	Product     string `yaml:"product"`
	Installment bool   `yaml:"installment"`
	Grade       int    `yaml:"grade"`
	UsageLimit  *int   `yaml:"usage_limit"`
	Active      *bool  `yaml:"active"`
}

type Lottery struct {
	Name            string     `yaml:"name"`
	Description     string     `yaml:"description"`
	Prize           string     `yaml:"prize"`
	MaxParticipants *int       `yaml:"max_participants"`
	StartDate       *time.Time `yaml:"start_date"`
	EndDate         *time.Time `yaml:"end_date"`
	Active          *bool      `yaml:"active"`
}

// Parse decodes and validates a catalog file.
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	var errs []error
	for i, p := range c.Products {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("products[%d]: name is required", i))
		}
		g := models.Grade(p.Grade)
		if !g.Valid() {
			errs = append(errs, fmt.Errorf("product %q: grade %d out of range", p.Name, p.Grade))
		}
		if p.Major != "" && !validMajor(p.Major) {
			errs = append(errs, fmt.Errorf("product %q: unknown major %q", p.Name, p.Major))
		}
		if p.Major != "" && !g.HighSchool() {
			errs = append(errs, fmt.Errorf("product %q: grade %d has no majors", p.Name, p.Grade))
		}
		if p.Price <= 0 {
			errs = append(errs, fmt.Errorf("product %q: price must be positive", p.Name))
		}
	}
	for i, s := range c.Sellers {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("sellers[%d]: name is required", i))
		}
		for _, code := range s.Codes {
			if code.Code == "" {
				errs = append(errs, fmt.Errorf("seller %q: empty referral code", s.Name))
			}
			if !models.ReferralProduct(code.Product).Valid() {
				errs = append(errs, fmt.Errorf("code %q: unknown product %q", code.Code, code.Product))
			}
			if code.Grade != 0 && !models.Grade(code.Grade).Valid() {
				errs = append(errs, fmt.Errorf("code %q: grade %d out of range", code.Code, code.Grade))
			}
		}
	}
	for i, l := range c.Lotteries {
		if l.Name == "" {
			errs = append(errs, fmt.Errorf("lotteries[%d]: name is required", i))
		}
		if l.StartDate != nil && l.EndDate != nil && l.EndDate.Before(*l.StartDate) {
			errs = append(errs, fmt.Errorf("lottery %q: ends before it starts", l.Name))
		}
	}
	return errors.Join(errs...)
}

func validMajor(m string) bool {
	for _, major := range models.Majors {
		if string(major) == m {
			return true
		}
	}
	return false
}

// Apply upserts the whole catalog in one transaction.
func Apply(ctx context.Context, stg storage.IStorage, c *Catalog, log logger.ILogger) error {
	return stg.WithTx(ctx, func(tx storage.IStorage) error {
		for _, p := range c.Products {
			product := &models.Product{
				Name:        p.Name,
				Grade:       models.Grade(p.Grade),
				Description: p.Description,
				Price:       p.Price,
				IsActive:    enabled(p.Active),
			}
			if p.Major != "" {
				m := models.Major(p.Major)
				product.Major = &m
			}
			if _, err := tx.Product().Upsert(ctx, product); err != nil {
				return fmt.Errorf("product %q: %w", p.Name, err)
			}
		}

		for _, s := range c.Sellers {
			seller := &models.Seller{Name: s.Name, IsActive: enabled(s.Active)}
			if s.TelegramID != 0 {
				seller.TelegramID = &s.TelegramID
			}
			if s.Phone != "" {
				seller.Phone = &s.Phone
			}
			saved, err := tx.Referral().UpsertSeller(ctx, seller)
			if err != nil {
				return fmt.Errorf("seller %q: %w", s.Name, err)
			}
			for _, code := range s.Codes {
				rc := &models.ReferralCode{
					OwnerID:     saved.ID,
					Code:        code.Code,
					Product:     models.ReferralProduct(code.Product),
					Installment: code.Installment,
					IsActive:    enabled(code.Active),
					UsageLimit:  code.UsageLimit,
				}
				if code.Grade != 0 {
					g := models.Grade(code.Grade)
					rc.Grade = &g
				}
				if _, err := tx.Referral().UpsertCode(ctx, rc); err != nil {
					return fmt.Errorf("code %q: %w", code.Code, err)
				}
			}
		}

		for _, l := range c.Lotteries {
			lottery := &models.Lottery{
				Name:            l.Name,
				Description:     l.Description,
				IsActive:        enabled(l.Active),
				MaxParticipants: l.MaxParticipants,
				StartDate:       l.StartDate,
				EndDate:         l.EndDate,
			}
			if l.Prize != "" {
				lottery.PrizeDescription = &l.Prize
			}
			if _, err := tx.Lottery().Upsert(ctx, lottery); err != nil {
				return fmt.Errorf("lottery %q: %w", l.Name, err)
			}
		}

		log.Info("catalog applied",
			logger.Int("products", len(c.Products)),
			logger.Int("sellers", len(c.Sellers)),
			logger.Int("lotteries", len(c.Lotteries)),
		)
		return nil
	})
}

// enabled treats a missing flag as true.
func enabled(flag *bool) bool {
	return flag == nil || *flag
}
