package stub

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/meghashyamc/searchfront/db/searchdb"
)

//go:embed fixture.json
var defaultFixture []byte

// Fixture is the data the stub backend serves.
type Fixture struct {
	Documents   []searchdb.Document `json:"documents"`
	Suggestions []string            `json:"suggestions"`
}

// LoadFixture reads the fixture at path, or the built-in one when path is empty.
func LoadFixture(path string) (*Fixture, error) {
	data := defaultFixture
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read fixture %s: %w", path, err)
		}
	}

	fixture := &Fixture{}
	if err := json.Unmarshal(data, fixture); err != nil {
		return nil, fmt.Errorf("could not decode fixture: %w", err)
	}

	return fixture, nil
}
