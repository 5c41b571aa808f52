// Package registry holds the compiled-in catalog of probe targets grouped
// into categories. The catalog is immutable: it is assembled once at package
// init and only read afterwards.
package registry

import (
	"github.com/osintkit/handlescan/internal/probe"
)

// Category groups an ordered set of sites under a selectable ID.
type Category struct {
	ID    string
	Label string
	// Sites are iterated in declared order; names are unique within a
	// category.
	Sites []probe.Site
}

// Category IDs accepted by the scanner.
const (
	CategorySocial = "social"
	CategoryTech   = "tech"
	CategoryAll    = "all"
)

var social = Category{
	ID:    CategorySocial,
	Label: "Social Sites",
	Sites: []probe.Site{
		{
			Name:           "Instagram",
			URLTemplate:    "https://www.instagram.com/{}/",
			Method:         probe.MethodRendered,
			SuccessMarkers: []string{`profilePage_`, `"username":"{}"`, `content="@{}`},
			FailureMarkers: []string{"Sorry, this page isn't available", "User not found"},
		},
		{
			Name:           "Facebook",
			URLTemplate:    "https://www.facebook.com/{}/",
			Method:         probe.MethodLightweight,
			FailureMarkers: []string{"This content isn't available", "Page not found"},
		},
		{
			Name:           "Twitter",
			URLTemplate:    "https://x.com/{}/",
			Method:         probe.MethodRendered,
			SuccessMarkers: []string{`data-testid="UserName"`, `data-testid="UserDescription"`},
			FailureMarkers: []string{"This account doesn't exist", "Account suspended"},
		},
		{
			Name:           "Snapchat",
			URLTemplate:    "https://www.snapchat.com/add/{}/",
			Method:         probe.MethodRendered,
			SuccessMarkers: []string{`data-testid="add-friend-button"`, "snapcode"},
			FailureMarkers: []string{"Hmm, couldn't find", "User not found"},
		},
	},
}

var tech = Category{
	ID:    CategoryTech,
	Label: "Tech Side",
	Sites: []probe.Site{
		{
			Name:           "LinkedIn",
			URLTemplate:    "https://www.linkedin.com/in/{}/",
			Method:         probe.MethodLightweight,
			FailureMarkers: []string{"This LinkedIn profile doesn't exist"},
		},
		{
			// Bare JSON API: a 200 alone proves existence.
			Name:        "GitHub",
			URLTemplate: "https://api.github.com/users/{}",
			Method:      probe.MethodLightweight,
		},
	},
}

var all = Category{
	ID:    CategoryAll,
	Label: "All Sites",
	Sites: Union(social.Sites, tech.Sites),
}

var categories = []Category{social, tech, all}

// Categories returns the catalog in declared order.
func Categories() []Category {
	return categories
}

// Lookup resolves a category by ID.
func Lookup(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// IDs returns the selectable category IDs in declared order.
func IDs() []string {
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// Union merges site lists keyed by name. A name seen again keeps its first
// position but takes the later definition; this is a merge, not an error.
func Union(lists ...[]probe.Site) []probe.Site {
	merged := make([]probe.Site, 0)
	index := make(map[string]int)
	for _, list := range lists {
		for _, site := range list {
			if i, ok := index[site.Name]; ok {
				merged[i] = site
				continue
			}
			index[site.Name] = len(merged)
			merged = append(merged, site)
		}
	}
	return merged
}
