// Package kinopoisk provides a client for the Kinopoisk movie catalog API.
package kinopoisk

import "strings"

// MovieSummary is the listing view of a movie.
// Zero values mean the upstream did not report the field.
type MovieSummary struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	PosterRef string  `json:"poster_ref,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Year      int     `json:"year,omitempty"`
}

// MovieDetail is the full record of a single movie.
type MovieDetail struct {
	MovieSummary
	Description    string   `json:"description,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Cast           []Person `json:"cast,omitempty"`
	RuntimeMinutes int      `json:"runtime_minutes,omitempty"`
	BackdropRef    string   `json:"backdrop_ref,omitempty"`
}

// Person is a cast or crew member, in billing order.
type Person struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"` // "actor", "director", ...
	PhotoRef string `json:"photo_ref,omitempty"`
}

// Page is one page of a listing.
// Cursor is the value to pass to FetchPage to get the following page.
type Page struct {
	Cursor  int            `json:"cursor"`
	Items   []MovieSummary `json:"items"`
	HasMore bool           `json:"has_more"`
	Total   int            `json:"total,omitempty"`
}

// IDs returns the movie IDs on the page, in order.
func (p *Page) IDs() []int64 {
	ids := make([]int64, 0, len(p.Items))
	for _, item := range p.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// listParams is the query string of the listing endpoints.
type listParams struct {
	Page         int      `url:"page"`
	Limit        int      `url:"limit"`
	Query        string   `url:"query,omitempty"`
	SortField    string   `url:"sortField,omitempty"`
	SortType     string   `url:"sortType,omitempty"`
	SelectFields []string `url:"selectFields,omitempty"`
}

// listResponse is the envelope returned by /movie and /movie/search.
type listResponse struct {
	Docs  []movieDoc `json:"docs"`
	Total int        `json:"total"`
	Limit int        `json:"limit"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
}

// movieDoc is a movie as the API encodes it. Listing responses only
// populate a subset of the fields.
type movieDoc struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	AlternativeName  string      `json:"alternativeName"`
	EnName           string      `json:"enName"`
	Year             int         `json:"year"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"shortDescription"`
	MovieLength      int         `json:"movieLength"`
	Rating           *ratingDoc  `json:"rating"`
	Poster           *imageDoc   `json:"poster"`
	Backdrop         *imageDoc   `json:"backdrop"`
	Genres           []nameDoc   `json:"genres"`
	Persons          []personDoc `json:"persons"`
}

type ratingDoc struct {
	KP          float64 `json:"kp"`
	IMDB        float64 `json:"imdb"`
	FilmCritics float64 `json:"filmCritics"`
}

type imageDoc struct {
	URL        string `json:"url"`
	PreviewURL string `json:"previewUrl"`
}

type nameDoc struct {
	Name string `json:"name"`
}

type personDoc struct {
	ID           int64  `json:"id"`
	Photo        string `json:"photo"`
	Name         string `json:"name"`
	EnName       string `json:"enName"`
	Profession   string `json:"profession"`
	EnProfession string `json:"enProfession"`
}

// Untitled is the title of a movie that has no name in any language.
const Untitled = "(без названия)"

func (d *movieDoc) title() string {
	for _, name := range []string{d.Name, d.AlternativeName, d.EnName} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return Untitled
}

func (d *movieDoc) summary() MovieSummary {
	s := MovieSummary{
		ID:    d.ID,
		Title: d.title(),
		Year:  d.Year,
	}
	if d.Poster != nil {
		s.PosterRef = d.Poster.ref()
	}
	if d.Rating != nil {
		s.Rating = d.Rating.KP
		if s.Rating == 0 {
			s.Rating = d.Rating.IMDB
		}
	}
	return s
}

func (d *movieDoc) detail() *MovieDetail {
	m := &MovieDetail{
		MovieSummary:   d.summary(),
		Description:    d.Description,
		RuntimeMinutes: d.MovieLength,
	}
	if m.Description == "" {
		m.Description = d.ShortDescription
	}
	if d.Backdrop != nil {
		m.BackdropRef = d.Backdrop.ref()
	}

	seen := make(map[string]bool, len(d.Genres))
	for _, g := range d.Genres {
		if g.Name == "" || seen[g.Name] {
			continue
		}
		seen[g.Name] = true
		m.Genres = append(m.Genres, g.Name)
	}

	for _, p := range d.Persons {
		name := p.Name
		if name == "" {
			name = p.EnName
		}
		m.Cast = append(m.Cast, Person{
			ID:       p.ID,
			Name:     name,
			Role:     p.EnProfession,
			PhotoRef: p.Photo,
		})
	}
	return m
}

func (i *imageDoc) ref() string {
	if i.URL != "" {
		return i.URL
	}
	return i.PreviewURL
}
