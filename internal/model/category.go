package model

// Category holds a recipe's category in whichever shape it was stored.
// Older catalogs keep a list of tags under "categories"; newer ones keep a
// single value under "category". The raw shape survives a round trip.
type Category struct {
	tags   []string
	value  string
	legacy bool
	set    bool
}

// LegacyCategory returns the list-of-tags shape.
func LegacyCategory(tags ...string) Category {
	cp := make([]string, len(tags))
	copy(cp, tags)
	return Category{tags: cp, legacy: true, set: true}
}

// CurrentCategory returns the single-value shape. An empty value is a valid
// placeholder.
func CurrentCategory(value string) Category {
	return Category{value: value, set: true}
}

// IsLegacy reports whether c uses the list-of-tags shape.
func (c Category) IsLegacy() bool { return c.legacy }

// IsSet reports whether the record carried a category field at all.
func (c Category) IsSet() bool { return c.set }

// Tags returns every category name carried by c.
func (c Category) Tags() []string {
	if c.legacy {
		cp := make([]string, len(c.tags))
		copy(cp, c.tags)
		return cp
	}
	if c.value == "" {
		return nil
	}
	return []string{c.value}
}

// Primary is the canonical single view: the first legacy tag or the current
// value, or "" when there is none.
func (c Category) Primary() string {
	if c.legacy {
		if len(c.tags) == 0 {
			return ""
		}
		return c.tags[0]
	}
	return c.value
}

// Matches reports whether name equals any category carried by c.
func (c Category) Matches(name string) bool {
	for _, t := range c.Tags() {
		if t == name {
			return true
		}
	}
	return false
}

func (c Category) clone() Category {
	if c.legacy {
		return LegacyCategory(c.tags...)
	}
	return c
}
