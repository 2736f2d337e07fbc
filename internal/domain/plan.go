package domain

type PlanID string

const (
	PlanFree    PlanID = "free"
	PlanStarter PlanID = "starter"
	PlanPro     PlanID = "pro"
)

// Plan is an agent subscription tier. MaxPackages < 0 means unlimited.
type Plan struct {
	ID          PlanID `json:"id"`
	Name        string `json:"name"`
	MaxPackages int    `json:"max_packages"`
	Featured    bool   `json:"featured"`
}

// Plans is ordered from the lowest tier to the highest.
var Plans = []Plan{
	{ID: PlanFree, Name: "Free", MaxPackages: 3},
	{ID: PlanStarter, Name: "Starter", MaxPackages: 20},
	{ID: PlanPro, Name: "Pro", MaxPackages: -1, Featured: true},
}

func PlanByID(id PlanID) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// AllowsPackages reports whether an agent holding count packages may create another one.
func (p Plan) AllowsPackages(count int64) bool {
	return p.MaxPackages < 0 || count < int64(p.MaxPackages)
}
