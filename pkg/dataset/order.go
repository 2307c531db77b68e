package dataset

// DomainOrder describes how the x-values of a series are ordered.
type DomainOrder int

// Domain orderings.
const (
	DomainOrderNone DomainOrder = iota
	DomainOrderAscending
	DomainOrderDescending
)

func (o DomainOrder) String() string {
	switch o {
	case DomainOrderAscending:
		return "ascending"
	case DomainOrderDescending:
		return "descending"
	case DomainOrderNone:
		return "none"
	default:
		return "unknown"
	}
}
