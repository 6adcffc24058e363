package server

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	defaultFixtureRows = 100
	nullRate           = 0.10
	orphanRate         = 0.05
)

// FixtureUser is one element of the /users/ payload.
type FixtureUser struct {
	UserID     int    `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	DateJoined string `json:"date_joined"`
}

// FixtureEmployee is one element of the /employees/ payload. Nil fields encode as JSON null.
type FixtureEmployee struct {
	ID               int     `json:"id"`
	UserID           int     `json:"user_id"`
	Name             string  `json:"name"`
	Position         *string `json:"position"`
	HireDate         *string `json:"hire_date"`
	PhoneNumber      *string `json:"phone_number"`
	EmergencyContact *string `json:"emergency_contact"`
	EmailAddress     *string `json:"email_address"`
}

// FixtureOpts configures a [FixtureHandler].
type FixtureOpts struct {
	Rows  int              // Users and employees to generate (default: 100)
	Seed  uint64           // Faker seed
	Keyed bool             // Wrap lists as {"users": [...]} and {"employees": [...]}
	Now   func() time.Time // Anchors generated dates (default: time.Now)
}

// FixtureHandler serves generated users and employees.
type FixtureHandler struct {
	users     []FixtureUser
	employees []FixtureEmployee
	usersBody []byte
	empBody   []byte
}

// NewFixtureHandler generates the fixture payloads and encodes them once.
func NewFixtureHandler(opts FixtureOpts) (*FixtureHandler, error) {
	if opts.Rows <= 0 {
		opts.Rows = defaultFixtureRows
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	f := gofakeit.NewFaker(rand.NewPCG(opts.Seed, opts.Seed+1), false)
	users, employees := generateFixtures(f, opts.Rows, opts.Now())

	h := &FixtureHandler{users: users, employees: employees}

	var err error
	if h.usersBody, err = encodeFixture(users, "users", opts.Keyed); err != nil {
		return nil, err
	}
	if h.empBody, err = encodeFixture(employees, "employees", opts.Keyed); err != nil {
		return nil, err
	}
	return h, nil
}

// Users returns the generated users.
func (h *FixtureHandler) Users() []FixtureUser { return h.users }

// Employees returns the generated employees.
func (h *FixtureHandler) Employees() []FixtureEmployee { return h.employees }

// Routes returns the HTTP routes this handler serves.
func (h *FixtureHandler) Routes() []string {
	return []string{"/users/", "/employees/"}
}

// ServeHTTP writes the payload for the requested collection.
func (h *FixtureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body []byte
	switch r.URL.Path {
	case "/users/":
		body = h.usersBody
	case "/employees/":
		body = h.empBody
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func generateFixtures(f *gofakeit.Faker, rows int, now time.Time) ([]FixtureUser, []FixtureEmployee) {
	end := now.UTC()
	users := make([]FixtureUser, rows)
	for i := range users {
		users[i] = FixtureUser{
			UserID:     i + 1,
			Username:   f.Username(),
			Email:      f.Email(),
			DateJoined: f.DateRange(end.AddDate(-5, 0, 0), end).Format(time.RFC3339),
		}
	}

	positions := []string{"Manager", "Engineer", "Analyst", "Clerk", "Designer"}
	employees := make([]FixtureEmployee, rows)
	for i := range employees {
		userID := i + 1
		if f.Float64() < orphanRate {
			userID = rows + 1 + i
		}

		emp := FixtureEmployee{
			ID:               i + 1,
			UserID:           userID,
			Name:             f.Name(),
			Position:         ptr(f.RandomString(positions)),
			HireDate:         ptr(f.DateRange(end.AddDate(-15, 0, 0), end).Format("2006-01-02")),
			PhoneNumber:      ptr(f.Phone()),
			EmergencyContact: ptr(f.Phone()),
			EmailAddress:     ptr(f.Email()),
		}
		if f.Float64() < nullRate {
			nullOptional(f, &emp)
		}
		employees[i] = emp
	}
	return users, employees
}

// nullOptional clears at least one optional field.
func nullOptional(f *gofakeit.Faker, emp *FixtureEmployee) {
	fields := []**string{&emp.Position, &emp.HireDate, &emp.PhoneNumber, &emp.EmergencyContact, &emp.EmailAddress}
	*fields[f.IntRange(0, len(fields)-1)] = nil
	for _, field := range fields {
		if f.Float64() < 0.3 {
			*field = nil
		}
	}
}

func encodeFixture[T any](list []T, key string, keyed bool) ([]byte, error) {
	var v any = list
	if keyed {
		v = map[string][]T{key: list}
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s fixture: %w", key, err)
	}
	return body, nil
}

func ptr[T any](v T) *T { return &v }
