package compare

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"shiptech/internal/models"
)

// SortField selects the management table sort column.
type SortField string

const (
	SortByTitle   SortField = "title"
	SortByCompany SortField = "company"
	SortByUpdated SortField = "updated"
)

// Filter narrows the management listing. Selections are a union: a
// technology matches when it belongs to any selected company AND carries
// any selected category. An empty selection imposes no filter on that axis.
type Filter struct {
	Companies  []string // company names
	Categories []string // category names
}

// BuildDetails denormalizes technologies for the management view:
// company name, creator/updater admin names, and the full category set
// accumulated from the mapping rows. The result is sorted by title.
func BuildDetails(
	techs []models.Technology,
	companies []models.Company,
	categories []models.TechnologyCategory,
	mappings []models.CategoryMapping,
	admins []models.Admin,
) []models.TechnologyDetail {
	companyNames := make(map[uuid.UUID]string, len(companies))
	for _, c := range companies {
		companyNames[c.ID] = c.Name
	}

	adminNames := make(map[uuid.UUID]string, len(admins))
	for _, a := range admins {
		adminNames[a.ID] = a.AdminName
	}

	categoryByID := make(map[uuid.UUID]models.TechnologyCategory, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	refsByTech := make(map[uuid.UUID][]models.CategoryRef)
	for _, m := range mappings {
		cat, ok := categoryByID[m.CategoryID]
		if !ok {
			continue
		}
		refsByTech[m.TechnologyID] = append(refsByTech[m.TechnologyID], models.CategoryRef{
			ID:   cat.ID,
			Name: cat.Name,
			Type: cat.Type,
		})
	}

	details := make([]models.TechnologyDetail, 0, len(techs))
	for _, t := range techs {
		d := models.TechnologyDetail{
			Technology:  t,
			CompanyName: companyNames[t.CompanyID],
			Categories:  refsByTech[t.ID],
		}
		if t.CreatedBy != nil {
			d.CreatedByName = adminNames[*t.CreatedBy]
		}
		if t.UpdatedBy != nil {
			d.UpdatedByName = adminNames[*t.UpdatedBy]
		}
		details = append(details, d)
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Title < details[j].Title
	})
	return details
}

// ApplyFilter returns the details matching the filter. See Filter for the
// union semantics.
func ApplyFilter(details []models.TechnologyDetail, f Filter) []models.TechnologyDetail {
	if len(f.Companies) == 0 && len(f.Categories) == 0 {
		return details
	}

	companyWanted := make(map[string]bool, len(f.Companies))
	for _, name := range f.Companies {
		companyWanted[name] = true
	}
	categoryWanted := make(map[string]bool, len(f.Categories))
	for _, name := range f.Categories {
		categoryWanted[name] = true
	}

	var result []models.TechnologyDetail
	for _, d := range details {
		if len(companyWanted) > 0 && !companyWanted[d.CompanyName] {
			continue
		}
		if len(categoryWanted) > 0 {
			match := false
			for _, ref := range d.Categories {
				if categoryWanted[ref.Name] {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, d)
	}
	return result
}

// SortDetails orders the details by the given field. Unknown fields fall
// back to title. The sort is stable, so equal keys keep their relative
// order from the previous arrangement.
func SortDetails(details []models.TechnologyDetail, field SortField, desc bool) {
	less := func(i, j int) bool {
		switch field {
		case SortByCompany:
			a, b := details[i].CompanyName, details[j].CompanyName
			if a != b {
				return a < b
			}
			return details[i].Title < details[j].Title
		case SortByUpdated:
			return details[i].UpdatedAt.Before(details[j].UpdatedAt)
		default:
			return strings.ToLower(details[i].Title) < strings.ToLower(details[j].Title)
		}
	}

	if desc {
		sort.SliceStable(details, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(details, less)
}
