package isa

// EnumValue is one value of an Enum.
type EnumValue struct {
	Value   int64
	Raw     string // Value as written.
	Display string
}

// Enum maps integer field values to display strings.
type Enum struct {
	Name   string
	Values []EnumValue // In declaration order.
	LineNo int
}

// CName is the identifier a generator uses for the enum.
func (en *Enum) CName() string {
	return "enum_" + cName(en.Name)
}

// Display returns the display string for a value.
func (en *Enum) Display(value int64) (display string, ok bool) {
	for _, ev := range en.Values {
		if ev.Value == value {
			return ev.Display, true
		}
	}
	return
}
