package canbus

// Filter is a single mask/value acceptance filter. A mask bit of 1 means the
// identifier bit must equal the corresponding Value bit; 0 is "don't care".
// A filter applies to one identifier format only.
type Filter struct {
	Mask     uint32
	Value    uint32
	Extended bool
}

// AcceptAllStandard passes every standard-ID frame and no extended ones.
var AcceptAllStandard = Filter{}

// Match reports whether id passes the filter.
func (f Filter) Match(id ID) bool {
	switch v := id.(type) {
	case StandardID:
		if f.Extended {
			return false
		}
		return (uint32(v)^f.Value)&f.Mask&MaxStandardID == 0
	case ExtendedID:
		if !f.Extended {
			return false
		}
		return (uint32(v)^f.Value)&f.Mask&MaxExtendedID == 0
	default:
		return false
	}
}
