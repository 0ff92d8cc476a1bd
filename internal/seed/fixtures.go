package seed

import (
	"embed"
	"fmt"

	"devcamper/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

type userFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

type locationFixture struct {
	Lat              float64 `yaml:"lat"`
	Lng              float64 `yaml:"lng"`
	FormattedAddress string  `yaml:"formatted_address"`
	Street           string  `yaml:"street"`
	City             string  `yaml:"city"`
	State            string  `yaml:"state"`
	Zipcode          string  `yaml:"zipcode"`
	Country          string  `yaml:"country"`
}

func (l locationFixture) model() models.Location {
	return models.Location{
		Lat:              l.Lat,
		Lng:              l.Lng,
		FormattedAddress: l.FormattedAddress,
		Street:           l.Street,
		City:             l.City,
		State:            l.State,
		Zipcode:          l.Zipcode,
		Country:          l.Country,
	}
}

type bootcampFixture struct {
	Name          string          `yaml:"name"`
	Owner         string          `yaml:"owner"`
	Description   string          `yaml:"description"`
	Website       string          `yaml:"website"`
	Phone         string          `yaml:"phone"`
	Email         string          `yaml:"email"`
	Address       string          `yaml:"address"`
	Location      locationFixture `yaml:"location"`
	Careers       []string        `yaml:"careers"`
	Housing       bool            `yaml:"housing"`
	JobAssistance bool            `yaml:"job_assistance"`
	JobGuarantee  bool            `yaml:"job_guarantee"`
	AcceptGi      bool            `yaml:"accept_gi"`
}

type courseFixture struct {
	Bootcamp             string  `yaml:"bootcamp"`
	Title                string  `yaml:"title"`
	Description          string  `yaml:"description"`
	Weeks                string  `yaml:"weeks"`
	Tuition              float64 `yaml:"tuition"`
	MinimumSkill         string  `yaml:"minimum_skill"`
	ScholarshipAvailable bool    `yaml:"scholarship_available"`
}

type reviewFixture struct {
	Bootcamp string `yaml:"bootcamp"`
	Author   string `yaml:"author"`
	Title    string `yaml:"title"`
	Text     string `yaml:"text"`
	Rating   int    `yaml:"rating"`
}

// Fixtures is the embedded demo data set.
type Fixtures struct {
	Users     []userFixture
	Bootcamps []bootcampFixture
	Courses   []courseFixture
	Reviews   []reviewFixture
}

// LoadFixtures decodes the embedded YAML files.
func LoadFixtures() (*Fixtures, error) {
	f := &Fixtures{}
	files := []struct {
		name string
		out  interface{}
	}{
		{"fixtures/users.yaml", &f.Users},
		{"fixtures/bootcamps.yaml", &f.Bootcamps},
		{"fixtures/courses.yaml", &f.Courses},
		{"fixtures/reviews.yaml", &f.Reviews},
	}
	for _, file := range files {
		raw, err := fixtureFS.ReadFile(file.name)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, file.out); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file.name, err)
		}
	}
	return f, nil
}

// Locations maps every fixture address to its stored location so imports
// never hit a remote geocoder.
func (f *Fixtures) Locations() map[string]models.Location {
	out := make(map[string]models.Location, len(f.Bootcamps))
	for _, b := range f.Bootcamps {
		out[b.Address] = b.Location.model()
	}
	return out
}
