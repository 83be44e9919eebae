// Package seed loads and validates campus reference datasets and writes them
// to the graph store. Seeding is an administrative operation; the serving
// path assumes it has already been done.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aayushs/campusguide/internal/domain"
)

// Dataset is the on-disk shape of a campus: location names, directed
// connections, and the teacher directory.
type Dataset struct {
	Locations   []string     `yaml:"locations"`
	Connections []Connection `yaml:"connections"`
	Teachers    []Teacher    `yaml:"teachers"`
}

// Connection declares a walkable link. Unless Oneway is set, seeding also
// writes a reverse connection of equal weight with a generic "go back
// towards <from>" instruction.
type Connection struct {
	From        string  `yaml:"from"`
	To          string  `yaml:"to"`
	Weight      float64 `yaml:"weight"`
	Instruction string  `yaml:"instruction"`
	Oneway      bool    `yaml:"oneway,omitempty"`
}

// Teacher is a directory entry; Cabin must name a declared location.
type Teacher struct {
	FirstName  string `yaml:"firstName"`
	LastName   string `yaml:"lastName"`
	Phone      string `yaml:"phone"`
	Email      string `yaml:"email"`
	Cabin      string `yaml:"cabin"`
	Building   string `yaml:"building"`
	Department string `yaml:"department"`
}

// Load reads a YAML dataset from disk and validates it.
func Load(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, fmt.Errorf("validate dataset %s: %w", path, err)
	}
	return ds, nil
}

// Validate checks referential integrity: connections and cabins must point at
// declared locations and weights must be positive.
func (d Dataset) Validate() error {
	if len(d.Locations) == 0 {
		return fmt.Errorf("dataset declares no locations")
	}

	known := make(map[string]struct{}, len(d.Locations))
	for _, name := range d.Locations {
		if name == "" {
			return fmt.Errorf("empty location name")
		}
		if _, dup := known[name]; dup {
			return fmt.Errorf("duplicate location %s", name)
		}
		known[name] = struct{}{}
	}

	for _, c := range d.Connections {
		if _, ok := known[c.From]; !ok {
			return fmt.Errorf("connection references unknown location %s", c.From)
		}
		if _, ok := known[c.To]; !ok {
			return fmt.Errorf("connection references unknown location %s", c.To)
		}
		if c.Weight <= 0 {
			return fmt.Errorf("connection %s->%s has non-positive weight %v", c.From, c.To, c.Weight)
		}
	}

	for _, t := range d.Teachers {
		if t.FirstName == "" {
			return fmt.Errorf("teacher with empty first name")
		}
		if _, ok := known[t.Cabin]; !ok {
			return fmt.Errorf("teacher %s has unknown cabin %s", t.FirstName, t.Cabin)
		}
	}

	return nil
}

func (t Teacher) toDomain() domain.Teacher {
	return domain.Teacher{
		FirstName:  t.FirstName,
		LastName:   t.LastName,
		Phone:      t.Phone,
		Email:      t.Email,
		Cabin:      t.Cabin,
		Building:   t.Building,
		Department: t.Department,
	}
}

// Default returns the built-in sample campus used when no dataset file is
// supplied: two academic blocks joined by an outdoor crossroad, plus three
// teachers (two sharing a cabin, to exercise disambiguation).
func Default() Dataset {
	return Dataset{
		Locations: []string{
			"AB1_ENTRANCE", "AB1_303", "AB1_310", "AB1_LIFT", "AB1_STAIRS", "AB1_EXIT",
			"CROSSROAD_1", "CANTEEN", "LIBRARY_ENTRANCE", "AB2_ENTRANCE", "AB2_112",
			"AB2_LIFT", "AB2_EXIT", "PARKING_LOT",
		},
		Connections: []Connection{
			{From: "AB1_ENTRANCE", To: "AB1_303", Weight: 10, Instruction: "go straight down the corridor"},
			{From: "AB1_303", To: "AB1_310", Weight: 5, Instruction: "continue straight"},
			{From: "AB1_310", To: "AB1_LIFT", Weight: 8, Instruction: "turn left towards the lift"},
			{From: "AB1_310", To: "AB1_STAIRS", Weight: 8, Instruction: "turn right for the stairs"},
			{From: "AB1_LIFT", To: "AB1_EXIT", Weight: 12, Instruction: "exit the building from the main door"},
			{From: "AB1_STAIRS", To: "AB1_EXIT", Weight: 12, Instruction: "exit the building from the main door"},
			{From: "AB1_EXIT", To: "CROSSROAD_1", Weight: 20, Instruction: "walk across the lawn"},
			{From: "CROSSROAD_1", To: "CANTEEN", Weight: 15, Instruction: "take the path on your left"},
			{From: "CROSSROAD_1", To: "LIBRARY_ENTRANCE", Weight: 15, Instruction: "take the path on your right"},
			{From: "CROSSROAD_1", To: "AB2_ENTRANCE", Weight: 25, Instruction: "walk straight ahead towards the next building"},
			{From: "AB2_ENTRANCE", To: "AB2_LIFT", Weight: 10, Instruction: "enter and find the lift on your right"},
			{From: "AB2_ENTRANCE", To: "AB2_112", Weight: 15, Instruction: "go straight and take the first right"},
			{From: "AB2_LIFT", To: "AB2_112", Weight: 5, Instruction: "exit the lift and turn left"},
			{From: "AB2_EXIT", To: "PARKING_LOT", Weight: 30, Instruction: "follow the main path out"},
		},
		Teachers: []Teacher{
			{FirstName: "Aayush", LastName: "Sharma", Phone: "9876543210", Email: "aayush.sharma@university.edu", Cabin: "AB1_303", Building: "AB1", Department: "Computer Science"},
			{FirstName: "Sneha", LastName: "Verma", Phone: "8765432109", Email: "sneha.verma@university.edu", Cabin: "AB2_112", Building: "AB2", Department: "Electronics"},
			{FirstName: "Aarav", LastName: "Gupta", Phone: "7654321098", Email: "aarav.gupta@university.edu", Cabin: "AB2_112", Building: "AB2", Department: "Mechanical"},
		},
	}
}
