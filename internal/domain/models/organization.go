package models

type Plan struct {
	ID       int    `gorm:"primaryKey"`
	Name     string `gorm:"uniqueIndex"`
	JobLimit int
}

type Organization struct {
	ID            string `gorm:"primaryKey"`
	Name          string
	PlanID        int
	Plan          Plan
	ExtraJobSlots int
}

// JobCap is the number of active careers the organization may hold.
func (o Organization) JobCap() int {
	return o.Plan.JobLimit + o.ExtraJobSlots
}
