package admin

import (
	"fmt"
	"math/rand"
	"time"
)

// SeedConfig controls the volume and shape of generated synthetic data.
// With a non-zero Seed the dataset is fully reproducible.
type SeedConfig struct {
	PatientCount           int   `json:"patient_count"`
	ProviderCount          int   `json:"provider_count"`
	AppointmentsPerPatient int   `json:"appointments_per_patient"`
	Seed                   int64 `json:"seed"`
}

// DefaultSeedConfig returns a SeedConfig sized for a demo environment.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		PatientCount:           100,
		ProviderCount:          6,
		AppointmentsPerPatient: 4,
	}
}

// Dataset is a complete synthetic practice, insertion-ordered so that all
// references resolve.
type Dataset struct {
	Patients     []PatientInput
	Providers    []ProviderInput
	Services     []ServiceInput
	Appointments []AppointmentInput
	Bookings     []BookingInput
	Payments     []PaymentInput
}

type serviceDef struct {
	Name        string
	Description string
	Price       int64 // cents
	Duration    int   // minutes
}

var (
	firstNames = []string{
		"James", "Robert", "John", "Michael", "David", "William", "Daniel",
		"Matthew", "Anthony", "Mark", "Steven", "Andrew", "Joshua", "Kevin",
		"Brian", "Jason", "Ryan", "Jacob", "Nicholas", "Eric",
		"Mary", "Patricia", "Jennifer", "Linda", "Elizabeth", "Susan",
		"Jessica", "Sarah", "Karen", "Lisa", "Nancy", "Sandra", "Ashley",
		"Kimberly", "Emily", "Michelle", "Amanda", "Melissa", "Stephanie",
		"Rebecca", "Laura", "Amy", "Anna", "Emma", "Nicole", "Samantha",
		"Katherine", "Rachel", "Maria", "Heather",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
		"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
		"Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore",
		"Jackson", "Martin", "Lee", "Perez", "Thompson", "White", "Harris",
		"Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker",
		"Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen",
		"Hill", "Flores", "Green", "Adams", "Nelson", "Baker", "Hall",
	}
	streets = []string{
		"123 Main St", "456 Oak Ave", "789 Elm St", "321 Pine Rd",
		"654 Maple Dr", "987 Cedar Ln", "147 Birch Blvd", "258 Walnut Way",
		"369 Cherry Ct", "741 Spruce Pl",
	}
	cities = []string{
		"Austin", "Dallas", "Houston", "San Antonio", "Phoenix",
		"San Diego", "Denver", "Miami", "Atlanta", "Nashville",
	}
	genders        = []string{"female", "female", "female", "male"}
	patientSources = []string{
		"google", "instagram", "facebook", "referral", "walk_in", "website",
	}
	appointmentStatuses = []string{
		"confirmed", "confirmed", "confirmed", "confirmed", "confirmed",
		"pending", "cancelled",
	}
	paymentMethods = []string{
		"credit_card", "credit_card", "credit_card", "debit_card", "cash", "check",
	}
	paymentStatuses = []string{"paid", "paid", "paid", "paid", "pending", "failed"}

	spaServices = []serviceDef{
		{"botox", "Botulinum toxin injection, per area", 35000, 30},
		{"dermal filler", "Hyaluronic acid filler, per syringe", 65000, 45},
		{"hydrafacial", "Deep-cleanse hydradermabrasion facial", 19900, 60},
		{"chemical peel", "Medium-depth glycolic peel", 15000, 45},
		{"microneedling", "Collagen induction therapy, full face", 30000, 60},
		{"laser hair removal", "Diode laser session, per area", 12500, 30},
		{"ipl photofacial", "Intense pulsed light treatment", 27500, 45},
		{"lip filler", "Lip augmentation with HA filler", 55000, 45},
		{"dermaplaning", "Manual exfoliation treatment", 9900, 30},
		{"body contouring", "Non-invasive fat reduction session", 45000, 60},
		{"massage", "Relaxation massage", 11000, 60},
		{"vitamin iv drip", "Hydration and vitamin infusion", 17500, 45},
	}
)

// Generator produces deterministic synthetic practice data.
type Generator struct {
	rng     *rand.Rand
	counter uint64
	now     time.Time
}

// NewGenerator returns a generator seeded for reproducibility. A zero seed
// picks a time-based one.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now().UTC(),
	}
}

func (g *Generator) nextID(prefix string) string {
	g.counter++
	return fmt.Sprintf("%s-%08x-%04x", prefix, g.rng.Uint32(), g.counter)
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// pastDate returns a timestamp up to maxDays before now.
func (g *Generator) pastDate(maxDays int) time.Time {
	return g.now.AddDate(0, 0, -g.rng.Intn(maxDays)).
		Add(-time.Duration(g.rng.Intn(24)) * time.Hour)
}

func (g *Generator) phone() string {
	return fmt.Sprintf("(%03d) %03d-%04d",
		200+g.rng.Intn(800), 200+g.rng.Intn(800), g.rng.Intn(10000))
}

func strptr(s string) *string       { return &s }
func timeptr(t time.Time) *time.Time { return &t }

// Generate builds a full dataset in dependency order: patients, providers
// and services first, then appointments, bookings, and payments that
// reference them.
func (g *Generator) Generate(cfg SeedConfig) *Dataset {
	ds := &Dataset{}

	for _, def := range spaServices {
		ds.Services = append(ds.Services, ServiceInput{
			ID:          g.nextID("svc"),
			Name:        def.Name,
			Description: strptr(def.Description),
			Price:       def.Price,
			Duration:    def.Duration,
			CreatedDate: timeptr(g.pastDate(730)),
		})
	}

	for i := 0; i < cfg.ProviderCount; i++ {
		first, last := g.pick(firstNames), g.pick(lastNames)
		ds.Providers = append(ds.Providers, ProviderInput{
			ID:          g.nextID("prov"),
			FirstName:   first,
			LastName:    last,
			Email:       strptr(fmt.Sprintf("%s.%s@medspa.example.com", first, last)),
			Phone:       strptr(g.phone()),
			CreatedDate: timeptr(g.pastDate(730)),
		})
	}

	for i := 0; i < cfg.PatientCount; i++ {
		first, last := g.pick(firstNames), g.pick(lastNames)
		dob := time.Date(1950+g.rng.Intn(56), time.Month(1+g.rng.Intn(12)),
			1+g.rng.Intn(28), 0, 0, 0, 0, time.UTC)
		p := PatientInput{
			ID:          g.nextID("pat"),
			FirstName:   first,
			LastName:    last,
			DateOfBirth: timeptr(dob),
			Gender:      strptr(g.pick(genders)),
			Address:     strptr(fmt.Sprintf("%s, %s", g.pick(streets), g.pick(cities))),
			Phone:       strptr(g.phone()),
			Email:       strptr(fmt.Sprintf("%s.%s%d@example.com", first, last, i)),
			Source:      strptr(g.pick(patientSources)),
			CreatedDate: timeptr(g.pastDate(540)),
		}
		ds.Patients = append(ds.Patients, p)

		g.generateVisits(cfg, ds, p)
	}

	return ds
}

func (g *Generator) generateVisits(cfg SeedConfig, ds *Dataset, p PatientInput) {
	visits := g.rng.Intn(cfg.AppointmentsPerPatient + 1)
	for v := 0; v < visits; v++ {
		status := g.pick(appointmentStatuses)
		created := g.pastDate(365)
		appt := AppointmentInput{
			ID:          g.nextID("appt"),
			PatientID:   p.ID,
			Status:      status,
			CreatedDate: timeptr(created),
		}
		ds.Appointments = append(ds.Appointments, appt)

		// A small share of confirmed appointments is scheduled ahead.
		start := created.Add(time.Duration(1+g.rng.Intn(14)) * 24 * time.Hour)
		if status == "confirmed" && g.rng.Intn(5) == 0 {
			start = g.now.Add(time.Duration(1+g.rng.Intn(21)) * 24 * time.Hour)
		}

		bookings := 1 + g.rng.Intn(2)
		for b := 0; b < bookings; b++ {
			svc := ds.Services[g.rng.Intn(len(ds.Services))]
			prov := ds.Providers[g.rng.Intn(len(ds.Providers))]
			end := start.Add(time.Duration(svc.Duration) * time.Minute)
			ds.Bookings = append(ds.Bookings, BookingInput{
				AppointmentID: appt.ID,
				ServiceID:     svc.ID,
				ProviderID:    prov.ID,
				Start:         start,
				End:           timeptr(end),
			})

			if status == "confirmed" && g.rng.Intn(4) > 0 {
				ds.Payments = append(ds.Payments, PaymentInput{
					ID:            g.nextID("pay"),
					PatientID:     p.ID,
					Amount:        svc.Price,
					Date:          end,
					Method:        strptr(g.pick(paymentMethods)),
					Status:        g.pick(paymentStatuses),
					ProviderID:    strptr(prov.ID),
					AppointmentID: strptr(appt.ID),
					ServiceID:     strptr(svc.ID),
					CreatedDate:   timeptr(end),
				})
			}

			start = end.Add(time.Duration(g.rng.Intn(30)) * time.Minute)
		}
	}
}
