package testutil

import (
	"encoding/json"
	"fmt"

	"staffdir/internal/directory/models"
)

// Names used by RawPeople, in order. Deterministic so tests can search by name.
var Names = [][2]string{
	{"John", "Smith"},
	{"Amelia", "Clarke"},
	{"Joanna", "Reyes"},
	{"Oliver", "Wright"},
	{"Isla", "Turner"},
	{"Noah", "Baker"},
	{"Grace", "Hughes"},
	{"Liam", "Jones"},
	{"Ella", "Price"},
	{"Mason", "Carter"},
	{"Ava", "Morgan"},
	{"Lucas", "Bennett"},
}

// RawPersonBuilder provides a fluent interface for building upstream people.
type RawPersonBuilder struct {
	p models.RawPerson
}

// NewRawPerson creates a builder with sensible defaults.
func NewRawPerson() *RawPersonBuilder {
	return &RawPersonBuilder{p: models.RawPerson{
		Name:    models.RawName{First: "Test", Last: "Person"},
		Email:   "test.person@example.com",
		Picture: models.RawPicture{Large: "https://randomuser.me/api/portraits/women/1.jpg"},
		Location: models.RawLocation{
			Street:   models.RawStreet{Name: "High Street", Number: "12"},
			City:     "Bristol",
			State:    "Avon",
			Postcode: "BS1 4DJ",
		},
		Cell: "07700-900-461",
		DOB:  models.RawDOB{Date: "1992-07-14T00:00:00.000Z"},
	}}
}

func (b *RawPersonBuilder) WithName(first, last string) *RawPersonBuilder {
	b.p.Name = models.RawName{First: first, Last: last}
	return b
}

func (b *RawPersonBuilder) WithEmail(email string) *RawPersonBuilder {
	b.p.Email = email
	return b
}

func (b *RawPersonBuilder) WithCell(cell string) *RawPersonBuilder {
	b.p.Cell = cell
	return b
}

func (b *RawPersonBuilder) WithDOB(date string) *RawPersonBuilder {
	b.p.DOB.Date = date
	return b
}

func (b *RawPersonBuilder) WithLocation(number, street, city, state, postcode string) *RawPersonBuilder {
	b.p.Location = models.RawLocation{
		Street:   models.RawStreet{Name: street, Number: models.FlexString(number)},
		City:     city,
		State:    state,
		Postcode: models.FlexString(postcode),
	}
	return b
}

func (b *RawPersonBuilder) Build() models.RawPerson {
	return b.p
}

// RawPeople returns n distinct upstream people named from Names.
func RawPeople(n int) []models.RawPerson {
	out := make([]models.RawPerson, n)
	for i := range out {
		name := Names[i%len(Names)]
		out[i] = NewRawPerson().
			WithName(name[0], name[1]).
			WithEmail(fmt.Sprintf("person%d@example.com", i)).
			WithCell(fmt.Sprintf("555-010-%04d", i)).
			Build()
	}
	return out
}

// ResponseBody encodes people the way the upstream API wraps them.
func ResponseBody(people []models.RawPerson) []byte {
	body, err := json.Marshal(models.Response{Results: people})
	if err != nil {
		panic(err)
	}
	return body
}
