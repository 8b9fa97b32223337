package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PersonRecord is one normalized directory entry. Index is its position in the
// store at ingestion time and is the only handle used for click-to-open and
// modal navigation.
type PersonRecord struct {
	Index        int    `json:"index"`
	ImageURL     string `json:"image_url"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	BirthDate    string `json:"birth_date"`
	Phone        string `json:"phone"`
	StreetNumber string `json:"street_number"`
	StreetName   string `json:"street_name"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

// AddressLine renders the street address the way the detail view shows it.
func (p PersonRecord) AddressLine() string {
	return fmt.Sprintf("%s %s, %s, %s", p.StreetNumber, p.StreetName, p.State, p.PostalCode)
}

// Response is the envelope returned by the people API.
type Response struct {
	Results []RawPerson `json:"results"`
}

// RawPerson mirrors the subset of the upstream payload selected by the inc= parameter.
type RawPerson struct {
	Name     RawName     `json:"name"`
	Email    string      `json:"email"`
	Picture  RawPicture  `json:"picture"`
	Location RawLocation `json:"location"`
	Cell     string      `json:"cell"`
	DOB      RawDOB      `json:"dob"`
}

type RawName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

type RawPicture struct {
	Large string `json:"large"`
}

type RawLocation struct {
	Street   RawStreet  `json:"street"`
	City     string     `json:"city"`
	State    string     `json:"state"`
	Postcode FlexString `json:"postcode"`
}

type RawStreet struct {
	Name   string     `json:"name"`
	Number FlexString `json:"number"`
}

type RawDOB struct {
	Date string `json:"date"`
}

// FlexString accepts either a JSON string or a JSON number. Upstream emits
// numeric postcodes for some nationalities and string postcodes for others.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", strings.TrimSpace(string(data)))
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
