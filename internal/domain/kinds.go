package domain

// ElectricalParts are components rated by voltage, current and power.
var ElectricalParts = Kind{
	Slug:  "electrical-parts",
	Title: "Electrical parts",
	Table: "electrical_parts",
	Columns: []Column{
		{Name: "voltage", Label: "Voltage", Type: TypeNumber, Placeholder: "V"},
		{Name: "current", Label: "Current", Type: TypeNumber, Placeholder: "A"},
		{Name: "power_rating", Label: "Power rating", Type: TypeNumber, Placeholder: "W"},
	},
}

// RawMaterials are stock materials identified by type and purity.
var RawMaterials = Kind{
	Slug:  "raw-materials",
	Title: "Raw materials",
	Table: "raw_materials",
	Columns: []Column{
		{Name: "type", Label: "Type", Type: TypeText, Placeholder: "e.g. copper"},
		{Name: "purity", Label: "Purity", Type: TypeNumber, Placeholder: "%"},
	},
}

// Items are generic inventory rows with no extra attributes.
var Items = Kind{
	Slug:  "items",
	Title: "Items",
	Table: "items",
}

// Kinds returns every resource kind served by the application.
func Kinds() []Kind {
	return []Kind{ElectricalParts, RawMaterials, Items}
}

// KindBySlug looks up a kind by its URL slug.
func KindBySlug(slug string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Slug == slug {
			return k, true
		}
	}
	return Kind{}, false
}
