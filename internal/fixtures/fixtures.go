// Package fixtures seeds the demo catalog: the three telecom customers with
// their users, and a hundred generated products. Loading is idempotent so
// the seed command can run against a populated database.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ameyabis/projet-7-api-rest/internal/model"
	"github.com/ameyabis/projet-7-api-rest/internal/repository"
)

// FixturePassword is the clear-text password every fixture user gets.
const FixturePassword = "password"

const productCount = 100

// productSeed keeps the generated catalog identical across runs.
const productSeed = 7

type customerFixture struct {
	name    string
	phone   string
	contact string
	users   []userFixture
}

type userFixture struct {
	username  string
	firstname string
	lastname  string
	email     string
}

func customerFixtures() []customerFixture {
	return []customerFixture{
		{
			name: "ORANGE", phone: "+33 1 44 44 22 22", contact: "partners@orange.example.com",
			users: []userFixture{
				{username: "orange_1", firstname: "Lucie", lastname: "Moreau", email: "lucie.moreau@orange.example.com"},
				{username: "orange_2", firstname: "Marc", lastname: "Petit", email: "marc.petit@orange.example.com"},
			},
		},
		{
			name: "SFR", phone: "+33 1 85 06 06 06", contact: "b2b@sfr.example.com",
			users: []userFixture{
				{username: "sfr_1", firstname: "Emma", lastname: "Roux", email: "emma.roux@sfr.example.com"},
				{username: "sfr_2", firstname: "Hugo", lastname: "Blanc", email: "hugo.blanc@sfr.example.com"},
				{username: "sfr_3", firstname: "Chloe", lastname: "Garnier", email: "chloe.garnier@sfr.example.com"},
			},
		},
		{
			name: "BOUYGUES", phone: "+33 1 39 26 60 33", contact: "pro@bouygues.example.com",
		},
	}
}

var (
	productLines  = []string{"Astra", "Nova", "Pulse", "Vertex", "Orbit", "Zenith", "Flux", "Aero", "Prism", "Echo"}
	productGrades = []string{"One", "Pro", "Max", "Lite", "Ultra", "Mini", "Plus", "X", "SE", "Edge"}
)

// Result reports how many rows the load touched.
type Result struct {
	CustomersCreated int
	CustomersUpdated int
	UsersCreated     int
	ProductsCreated  int
}

// Load seeds customers, users and products. Existing customers (by name) are
// updated in place, existing users (by username) and any already-seeded
// product catalog are left untouched.
func Load(
	ctx context.Context,
	customers repository.CustomerRepository,
	users repository.UserRepository,
	products repository.ProductRepository,
) (Result, error) {
	var res Result

	for _, fixture := range customerFixtures() {
		customer, err := upsertCustomer(ctx, customers, fixture, &res)
		if err != nil {
			return res, err
		}
		for _, userFixture := range fixture.users {
			if err := createUser(ctx, users, customer, userFixture, &res); err != nil {
				return res, err
			}
		}
	}

	created, err := seedProducts(ctx, products)
	if err != nil {
		return res, err
	}
	res.ProductsCreated = created
	return res, nil
}

func upsertCustomer(ctx context.Context, repo repository.CustomerRepository, fixture customerFixture, res *Result) (*model.Customer, error) {
	existing, err := repo.FindByName(ctx, fixture.name)
	if err == nil {
		existing.Phone = fixture.phone
		existing.Contact = fixture.contact
		if err := repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update customer %s: %w", fixture.name, err)
		}
		res.CustomersUpdated++
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find customer %s: %w", fixture.name, err)
	}

	customer := &model.Customer{
		Name:    fixture.name,
		Phone:   fixture.phone,
		Contact: fixture.contact,
	}
	if err := repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer %s: %w", fixture.name, err)
	}
	res.CustomersCreated++
	return customer, nil
}

func createUser(ctx context.Context, repo repository.UserRepository, customer *model.Customer, fixture userFixture, res *Result) error {
	if _, err := repo.FindByUsername(ctx, fixture.username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find user %s: %w", fixture.username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), 10)
	if err != nil {
		return fmt.Errorf("hash fixture password: %w", err)
	}
	user := &model.User{
		Username:   fixture.username,
		Password:   string(hash),
		Firstname:  fixture.firstname,
		Lastname:   fixture.lastname,
		Email:      fixture.email,
		CustomerID: customer.ID,
	}
	if err := repo.Create(ctx, user); err != nil {
		return fmt.Errorf("create user %s: %w", fixture.username, err)
	}
	res.UsersCreated++
	return nil
}

func seedProducts(ctx context.Context, repo repository.ProductRepository) (int, error) {
	existing, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	rng := rand.New(rand.NewSource(productSeed))
	created := 0
	for i := 0; i < productCount; i++ {
		name := fmt.Sprintf("BileMo %s %s %d",
			productLines[rng.Intn(len(productLines))],
			productGrades[rng.Intn(len(productGrades))],
			64*(1+rng.Intn(8)),
		)
		price := decimal.NewFromInt(int64(9900 + rng.Intn(90100))).Div(decimal.NewFromInt(100))
		product := &model.Product{
			Name:        name,
			Description: fmt.Sprintf("%s, %d-inch display, dual SIM, sold to business customers only.", name, 5+rng.Intn(3)),
			Price:       price,
		}
		if err := repo.Create(ctx, product); err != nil {
			return created, fmt.Errorf("create product %q: %w", name, err)
		}
		created++
	}
	return created, nil
}
