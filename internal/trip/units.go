package trip

// ToUnits converts a (crates, loose units) pair into a single unit count.
// A capacity of 0 is valid (product handled loose only) and degenerates to
// the loose count. Negative inputs are rejected; the field name is carried
// so callers can point at the offending form input.
func ToUnits(crates, looseUnits, capacityPerCrate int) (int, error) {
	switch {
	case crates < 0:
		return 0, &InvalidQuantityError{Field: "crates"}
	case looseUnits < 0:
		return 0, &InvalidQuantityError{Field: "looseUnits"}
	case capacityPerCrate < 0:
		return 0, &InvalidQuantityError{Field: "capacityPerCrate"}
	}
	return crates*capacityPerCrate + looseUnits, nil
}
