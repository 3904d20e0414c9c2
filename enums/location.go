package enums

// Location is a cafeteria site and the plan id the feed knows it by.
type Location struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// Locations is the fixed registry, in scheduling order.
var Locations = []Location{
	{Name: "MensaReichenhainer", ID: 1479835489},
	{Name: "MensaStrana", ID: 773823070},
	{Name: "MensaScheffelberg", ID: 3},
	{Name: "MensaRing", ID: 4},
	{Name: "CafetariaRing", ID: 5},
	{Name: "CafetariaStrana", ID: 6},
	{Name: "CafetariaReichenhainer", ID: 7},
	{Name: "CafetariaScheffelberg", ID: 8},
}

// LocationByName looks up a location by its registry name.
func LocationByName(name string) (Location, bool) {
	for _, l := range Locations {
		if l.Name == name {
			return l, true
		}
	}
	return Location{}, false
}

// LocationByID looks up a location by its feed plan id.
func LocationByID(id int64) (Location, bool) {
	for _, l := range Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}
