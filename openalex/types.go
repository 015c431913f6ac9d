package openalex

// Page is the envelope OpenAlex wraps list responses in.
type Page[T any] struct {
	Meta    Meta `json:"meta"`
	Results []T  `json:"results"`
}

// Meta carries paging information.
type Meta struct {
	Count   int `json:"count"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Work is the subset of an OpenAlex work collabmap reads.
type Work struct {
	ID              string        `json:"id"`
	DOI             string        `json:"doi"`
	Title           string        `json:"title"`
	DisplayName     string        `json:"display_name"`
	PublicationYear int           `json:"publication_year"`
	Authorships     []*Authorship `json:"authorships"`
}

// Authorship links a work to one author and their institutions at the time.
type Authorship struct {
	AuthorPosition string            `json:"author_position"`
	Author         *Author           `json:"author"`
	Institutions   []*InstitutionRef `json:"institutions"`
}

// Author is a dehydrated OpenAlex author.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid"`
}

// InstitutionRef is a dehydrated OpenAlex institution.
type InstitutionRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
}

// Institution is the subset of an OpenAlex institution collabmap reads.
type Institution struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
	Geo         *Geo   `json:"geo"`
}

// Geo is an institution's location. Latitude and longitude may be null.
type Geo struct {
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
