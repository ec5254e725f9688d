package brave

import "searchkit/internal/domain"

// Payload models the relevant portion of the Brave Search JSON response.
// All three top-level sections are optional.
type Payload struct {
	Web  *webSection  `json:"web"`
	News *newsSection `json:"news"`
	FAQ  *faqSection  `json:"faq"`
}

type webSection struct {
	Results []webResult `json:"results"`
}

type webResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Snippet     string `json:"snippet"`
	Age         string `json:"age"`
	Language    string `json:"language"`
}

type newsSection struct {
	Results []newsResult `json:"results"`
}

type newsResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Age         string `json:"age"`
	MetaURL     struct {
		Hostname string `json:"hostname"`
	} `json:"meta_url"`
}

type faqSection struct {
	Results []faqResult `json:"results"`
}

type faqResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

// Normalize converts a provider payload into the uniform result sequence.
// Sections are walked in a fixed order (web, news, faq) and that order is
// preserved in the output. Entries are never dropped for missing fields;
// an entry is only absent when its whole section is absent.
func Normalize(p *Payload) []domain.SearchResult {
	if p == nil {
		return nil
	}

	var results []domain.SearchResult

	if p.Web != nil {
		for _, r := range p.Web.Results {
			results = append(results, domain.SearchResult{
				Kind:        domain.KindWeb,
				Title:       r.Title,
				URL:         r.URL,
				Description: r.Description,
				Snippet:     r.Snippet,
				Age:         r.Age,
				Source:      r.Language,
			})
		}
	}

	if p.News != nil {
		for _, r := range p.News.Results {
			results = append(results, domain.SearchResult{
				Kind:        domain.KindNews,
				Title:       r.Title,
				URL:         r.URL,
				Description: r.Description,
				Age:         r.Age,
				Source:      r.MetaURL.Hostname,
			})
		}
	}

	if p.FAQ != nil {
		for _, r := range p.FAQ.Results {
			results = append(results, domain.SearchResult{
				Kind:        domain.KindFAQ,
				Title:       r.Title,
				URL:         r.URL,
				Description: r.Answer,
				Snippet:     r.Question,
			})
		}
	}

	return results
}
