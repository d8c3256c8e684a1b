package model

// Slot names as they appear in prompts and persisted intent snapshots.
const (
	SlotCategory     = "categoria"
	SlotVehicleModel = "modelo_carro"
	SlotVehicleYear  = "ano"
)

// Intent is the structured purchase intent inferred from a conversation.
// An empty string means the slot is unknown.
type Intent struct {
	Category     string `json:"categoria,omitempty"`
	VehicleModel string `json:"modelo_carro,omitempty"`
	VehicleYear  string `json:"ano,omitempty"`
}

// Merge returns the intent with every set field of update applied.
// Unset fields of update never clear a known value.
func (i Intent) Merge(update Intent) Intent {
	if update.Category != "" {
		i.Category = update.Category
	}
	if update.VehicleModel != "" {
		i.VehicleModel = update.VehicleModel
	}
	if update.VehicleYear != "" {
		i.VehicleYear = update.VehicleYear
	}
	return i
}

// Complete reports whether all three slots are known.
func (i Intent) Complete() bool {
	return i.Category != "" && i.VehicleModel != "" && i.VehicleYear != ""
}

// IsEmpty reports whether no slot is known.
func (i Intent) IsEmpty() bool {
	return i.Category == "" && i.VehicleModel == "" && i.VehicleYear == ""
}
