package catalog

import (
	"strings"
)

// projection lists the product fields every listing query returns.
const projection = `{_id, title, description, tags, price, productImage, slug, isNew, discountPercentage, inventoryCount}`

const (
	// defaultPageQuery is the bounded landing-page query: first 8 products.
	defaultPageQuery = `*[_type == "product"][0..7]` + projection

	// allProductsQuery is the expanded, unfiltered catalog.
	allProductsQuery = `*[_type == "product"]` + projection

	productBySlugQuery = `*[_type == "product" && slug.current == $slug][0]` + projection
	productByIDQuery   = `*[_type == "product" && _id == $id][0]` + projection
)

// BuildListQuery turns filter criteria and a free-text search term into a
// GROQ query plus its parameter map. Filters and search combine with AND:
// an active search term narrows the filtered set instead of replacing it.
// All user-supplied values travel as GROQ parameters, never interpolated.
//
// With nothing set, the default bounded page is returned, or the complete
// catalog when expanded is true.
func BuildListQuery(criteria FilterCriteria, searchTerm string, expanded bool) (string, map[string]any) {
	searchTerm = strings.TrimSpace(searchTerm)

	if criteria.Empty() && searchTerm == "" {
		if expanded {
			return allProductsQuery, nil
		}
		return defaultPageQuery, nil
	}

	var clauses []string
	params := map[string]any{}

	if criteria.Tag != "" {
		clauses = append(clauses, `$tag in tags`)
		params["tag"] = criteria.Tag
	}
	if criteria.PriceCeiling > 0 {
		clauses = append(clauses, `price <= $maxPrice`)
		params["maxPrice"] = criteria.PriceCeiling
	}
	if criteria.DiscountOnly {
		clauses = append(clauses, `discountPercentage > 0`)
	}
	if criteria.NewOnly {
		clauses = append(clauses, `isNew == true`)
	}
	if searchTerm != "" {
		// match uses wildcard patterns, so *term* gives case-insensitive
		// substring semantics on title and description.
		clauses = append(clauses, `(title match $term || description match $term || $searchTag in tags)`)
		params["term"] = "*" + searchTerm + "*"
		params["searchTag"] = searchTerm
	}

	var b strings.Builder
	b.WriteString(`*[_type == "product"`)
	for _, clause := range clauses {
		b.WriteString(" && ")
		b.WriteString(clause)
	}
	b.WriteString(`]`)
	b.WriteString(projection)
	return b.String(), params
}
