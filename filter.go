package slide2d

/// Collision layers for a collider. A query hits a collider when the
/// query's mask has a bit in common with the collider's category.
type Layers struct {
	/// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16

	/// The collision mask bits. This states the categories that this
	/// collider would accept for collision.
	MaskBits uint16
}

func MakeLayers() Layers {
	return Layers{
		CategoryBits: 0x0001,
		MaskBits:     0xFFFF,
	}
}

/// A filter applied to world queries. Colliders whose category does not
/// intersect the mask, or that appear in the excluded set, are skipped.
type QueryFilter struct {
	MaskBits uint16
	Excluded map[Entity]struct{}
}

func MakeQueryFilter() QueryFilter {
	return QueryFilter{
		MaskBits: 0xFFFF,
	}
}

/// A filter that hits everything except the given entities. Useful to keep
/// a character from colliding with its own collider.
func QueryFilterExcluding(entities ...Entity) QueryFilter {
	filter := MakeQueryFilter()
	filter.Excluded = make(map[Entity]struct{}, len(entities))
	for _, e := range entities {
		filter.Excluded[e] = struct{}{}
	}
	return filter
}

func (filter QueryFilter) Accepts(e Entity, layers Layers) bool {
	if filter.MaskBits&layers.CategoryBits == 0 {
		return false
	}
	if filter.Excluded != nil {
		if _, ok := filter.Excluded[e]; ok {
			return false
		}
	}
	return true
}
