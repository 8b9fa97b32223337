package fetcher

import (
	"strconv"
	"strings"
)

// DefaultBaseURL pins the API version so upstream changes cannot break decoding.
const DefaultBaseURL = "https://randomuser.me/api/1.3/"

// DefaultResults is the fixed batch size of one directory load.
const DefaultResults = 12

// DefaultFields selects the upstream fields the directory uses.
var DefaultFields = []string{"picture", "name", "email", "location", "cell", "dob"}

// DefaultNationalities restricts results to English-speaking nationalities.
var DefaultNationalities = []string{"gb", "us"}

// BuildRequestURL joins ordered key=value params with & and appends them to baseURL.
func BuildRequestURL(baseURL string, params []string) string {
	return baseURL + "?" + strings.Join(params, "&")
}

// QueryParams returns the ordered inc/results/nat parameters for one batch.
func QueryParams(fields []string, results int, nationalities []string) []string {
	return []string{
		"inc=" + strings.Join(fields, ","),
		"results=" + strconv.Itoa(results),
		"nat=" + strings.Join(nationalities, ","),
	}
}
