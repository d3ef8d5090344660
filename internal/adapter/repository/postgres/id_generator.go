package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates instruction references. ULIDs sort by creation
// time, which keeps audit rows in insertion order on the primary key.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
