package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aayushs/campusguide/internal/domain"
	"github.com/aayushs/campusguide/internal/graph"
)

// Repository encapsulates graph persistence operations for the campus map and
// the teacher directory.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// FetchCampusMap loads every location and directed connection from the graph
// store and builds the adjacency view. It is called per navigation request so
// routes always reflect the store at request time; there is no caching layer.
// Locations with no outgoing connections still appear as keys. A connection
// whose source was not returned as a node still registers the source.
func (r *Repository) FetchCampusMap(ctx context.Context) (domain.CampusMap, error) {
	m := make(domain.CampusMap)

	nodes, err := r.client.ExecuteRead(ctx, listLocationsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list locations query: %w", err)
	}
	for _, record := range nodes.Records {
		if name := toString(record["name"]); name != "" {
			m.AddLocation(name)
		}
	}

	edges, err := r.client.ExecuteRead(ctx, listConnectionsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list connections query: %w", err)
	}
	for _, record := range edges.Records {
		source := toString(record["source"])
		target := toString(record["target"])
		if source == "" || target == "" {
			continue
		}
		m.AddConnection(source, target, domain.Connection{
			Weight:      toFloat64(record["weight"]),
			Instruction: toString(record["instruction"]),
		})
	}

	return m, nil
}

// FindTeachersByFirstName returns directory entries whose first name matches
// case-insensitively. Zero results is not an error.
func (r *Repository) FindTeachersByFirstName(ctx context.Context, firstName string) ([]domain.Teacher, error) {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return nil, errors.New("first name is required")
	}

	res, err := r.client.ExecuteRead(ctx, findTeachersCypher, map[string]any{
		"firstName": firstName,
	})
	if err != nil {
		return nil, fmt.Errorf("find teachers %q: %w", firstName, err)
	}

	var teachers []domain.Teacher
	for _, record := range res.Records {
		teachers = append(teachers, domain.Teacher{
			FirstName:  toString(record["firstName"]),
			LastName:   toString(record["lastName"]),
			Phone:      toString(record["phone"]),
			Email:      toString(record["email"]),
			Cabin:      toString(record["cabin"]),
			Building:   toString(record["building"]),
			Department: toString(record["department"]),
		})
	}
	return teachers, nil
}

// DeleteAll wipes the store. Used only by the seeding command.
func (r *Repository) DeleteAll(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, deleteAllCypher, nil); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	return nil
}

// CreateLocation ensures a location node exists.
func (r *Repository) CreateLocation(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("location name is required")
	}
	_, err := r.client.ExecuteWrite(ctx, createLocationCypher, map[string]any{
		"name": name,
	})
	if err != nil {
		return fmt.Errorf("create location %s: %w", name, err)
	}
	return nil
}

// CreateConnection records a directed connection between two existing
// locations. Writing the same (source, target) pair twice overwrites the
// previous weight and instruction.
func (r *Repository) CreateConnection(ctx context.Context, source, target string, weight float64, instruction string) error {
	if source == "" || target == "" {
		return errors.New("both source and target locations are required")
	}
	if weight <= 0 {
		weight = domain.DefaultWeight
	}
	if instruction == "" {
		instruction = domain.DefaultInstruction
	}
	_, err := r.client.ExecuteWrite(ctx, createConnectionCypher, map[string]any{
		"source":      source,
		"target":      target,
		"weight":      weight,
		"instruction": instruction,
	})
	if err != nil {
		return fmt.Errorf("create connection %s->%s: %w", source, target, err)
	}
	return nil
}

// CreateTeacher stores a directory entry and links it to its cabin location.
func (r *Repository) CreateTeacher(ctx context.Context, t domain.Teacher) error {
	if t.FirstName == "" {
		return errors.New("teacher first name is required")
	}
	_, err := r.client.ExecuteWrite(ctx, createTeacherCypher, map[string]any{
		"firstName":  t.FirstName,
		"lastName":   t.LastName,
		"phone":      t.Phone,
		"email":      t.Email,
		"cabin":      t.Cabin,
		"building":   t.Building,
		"department": t.Department,
	})
	if err != nil {
		return fmt.Errorf("create teacher %s: %w", t.FullName(), err)
	}
	return nil
}

// --- Cypher statements ---

const listLocationsCypher = `
MATCH (n:Location)
RETURN n.name AS name
`

const listConnectionsCypher = `
MATCH (a:Location)-[r:CONNECTED_TO]->(b:Location)
RETURN a.name AS source, b.name AS target, r.weight AS weight, r.direction AS instruction
`

const findTeachersCypher = `
MATCH (t:Teacher)
WHERE toLower(t.firstName) = toLower($firstName)
RETURN t.firstName AS firstName, t.lastName AS lastName, t.phone AS phone,
       t.email AS email, t.cabin AS cabin, t.building AS building, t.department AS department
`

const deleteAllCypher = `
MATCH (n)
DETACH DELETE n
`

const createLocationCypher = `
MERGE (:Location {name: $name})
`

const createConnectionCypher = `
MATCH (a:Location {name: $source}), (b:Location {name: $target})
MERGE (a)-[r:CONNECTED_TO]->(b)
SET r.weight = $weight, r.direction = $instruction
`

const createTeacherCypher = `
CREATE (t:Teacher {
	firstName: $firstName,
	lastName: $lastName,
	phone: $phone,
	email: $email,
	cabin: $cabin,
	building: $building,
	department: $department
})
WITH t
MATCH (l:Location {name: $cabin})
CREATE (t)-[:HAS_CABIN_AT]->(l)
`

// --- record value helpers ---

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}
