package models

// PageMeta describes where a page sits inside the full result set.
type PageMeta struct {
	Page            int  `json:"page"`
	Size            int  `json:"size"`
	ItemCount       int  `json:"item_count"`
	PageCount       int  `json:"page_count"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// Page is one page of services together with its pagination metadata.
type Page struct {
	Items []*Service `json:"items"`
	Meta  PageMeta   `json:"meta"`
}

// NewPageMeta computes pagination metadata for a result set of itemCount
// rows. PageCount is ceil(itemCount/size) and 0 for an empty result set, so
// page 1 of an empty set reports neither a previous nor a next page.
func NewPageMeta(page, size, itemCount int) PageMeta {
	pageCount := 0
	if itemCount > 0 {
		pageCount = (itemCount + size - 1) / size
	}
	return PageMeta{
		Page:            page,
		Size:            size,
		ItemCount:       itemCount,
		PageCount:       pageCount,
		HasPreviousPage: page > 1,
		HasNextPage:     page < pageCount,
	}
}

// NewPage builds a page from items and precomputed counts. Items is
// normalised to an empty slice so the JSON form is always an array.
func NewPage(items []*Service, page, size, itemCount int) *Page {
	if items == nil {
		items = []*Service{}
	}
	return &Page{Items: items, Meta: NewPageMeta(page, size, itemCount)}
}
