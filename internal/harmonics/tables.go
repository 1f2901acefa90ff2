package harmonics

import "github.com/harborops/tidecast/internal/models"

// Angular speeds of the four dominant constituents, degrees per hour.
// These are astronomical constants; only amplitude and phase are fitted
// per station.
const (
	SpeedM2 = 28.9841042 // principal lunar semidiurnal
	SpeedS2 = 30.0000000 // principal solar semidiurnal
	SpeedK1 = 15.0410686 // lunisolar diurnal
	SpeedO1 = 13.9430356 // principal lunar diurnal
)

// SetoReferenceTable is the fitted table for the Seto Inland Sea reference
// station the port profiles are corrected from. The relative phase of the
// solar and lunar semidiurnal terms drives the spring/neap modulation of
// the range.
func SetoReferenceTable() models.ConstituentTable {
	return models.ConstituentTable{
		Name:        "seto-reference",
		MeanLevelCm: 190,
		Constituents: []models.Constituent{
			{Name: "M2", AmplitudeCm: 108.0, PhaseDeg: 242.0, SpeedDegPerHour: SpeedM2},
			{Name: "S2", AmplitudeCm: 43.0, PhaseDeg: 275.0, SpeedDegPerHour: SpeedS2},
			{Name: "K1", AmplitudeCm: 24.0, PhaseDeg: 196.0, SpeedDegPerHour: SpeedK1},
			{Name: "O1", AmplitudeCm: 19.0, PhaseDeg: 172.0, SpeedDegPerHour: SpeedO1},
		},
	}
}
