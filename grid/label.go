package grid

// Label point sizes for the narrowest tier. Larger indices get smaller text
// so the label still fits inside a one-byte cell.
const (
	LabelPoints      = 12.0
	labelPointsE3    = 11.0
	labelPointsE4    = 10.0
	labelPointsE5    = 9.5
	labelPointsSmall = 9.0
)

// LabelSize returns the font size for the label of cell i on level l.
// Only the one-byte tier shrinks; wider tiers have room for any index.
func LabelSize(l Level, i int64) float64 {
	if l.Bytes != 1 {
		return LabelPoints
	}
	if i < 0 {
		i = -i
	}
	switch {
	case i < 1_000:
		return LabelPoints
	case i < 10_000:
		return labelPointsE3
	case i < 100_000:
		return labelPointsE4
	case i < 1_000_000:
		return labelPointsE5
	default:
		return labelPointsSmall
	}
}

// Fit shortens label to at most width runes, dropping the tier name first
// and then truncating the index from the left with a leading '…'.
func Fit(label string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(label)
	if len(r) <= width {
		return label
	}
	for i, c := range r {
		if c == ' ' {
			r = r[i+1:]
			break
		}
	}
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return "…" + string(r[len(r)-width+1:])
}
