package services

import (
	"time"

	"retromart/internal/models"
	"retromart/internal/repositories"
)

// AgeBracket is a labeled inclusive age range. Max of zero means
// open-ended.
type AgeBracket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// DefaultAgeBrackets are the dashboard's standard brackets.
var DefaultAgeBrackets = []AgeBracket{
	{Label: "18-25", Min: 18, Max: 25},
	{Label: "26-35", Min: 26, Max: 35},
	{Label: "36-50", Min: 36, Max: 50},
	{Label: "50+", Min: 51},
}

// ReportService provides read-only aggregation over registrations and the
// invoice log for the dashboard. It never mutates anything.
type ReportService struct {
	userRepo    repositories.UserRepository
	invoiceRepo repositories.InvoiceRepository
}

// NewReportService creates a new ReportService.
func NewReportService(userRepo repositories.UserRepository, invoiceRepo repositories.InvoiceRepository) *ReportService {
	return &ReportService{
		userRepo:    userRepo,
		invoiceRepo: invoiceRepo,
	}
}

// GenderDistribution counts registered users per gender. Male, Female and
// Other are always present in the result; any other recorded value gets
// its own bucket.
func (s *ReportService) GenderDistribution() (map[string]int, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}
	counts := map[string]int{"Male": 0, "Female": 0, "Other": 0}
	for _, u := range users {
		counts[u.Gender]++
	}
	return counts, nil
}

// AgeBracketDistribution counts registered users per bracket. Users whose
// age (or unparseable date of birth) matches no bracket are not counted.
func (s *ReportService) AgeBracketDistribution(brackets []AgeBracket) (map[string]int, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	counts := make(map[string]int, len(brackets))
	for _, b := range brackets {
		counts[b.Label] = 0
	}
	for _, u := range users {
		age, err := ageAt(u.DOB, now)
		if err != nil {
			continue
		}
		for _, b := range brackets {
			if age >= b.Min && (b.Max == 0 || age <= b.Max) {
				counts[b.Label]++
				break
			}
		}
	}
	return counts, nil
}

// ListInvoices returns the whole invoice log, oldest first.
func (s *ReportService) ListInvoices() ([]models.Invoice, error) {
	return s.invoiceRepo.GetAll()
}

// GetInvoice looks an invoice up by its exact number.
func (s *ReportService) GetInvoice(number string) (*models.Invoice, error) {
	return s.invoiceRepo.GetByNumber(number)
}
