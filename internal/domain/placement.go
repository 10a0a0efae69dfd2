package domain

// Placement is the computed pose of one catalog item.
type Placement struct {
	ItemID   string  `json:"item_id"`
	Position Vec3    `json:"position"`
	Yaw      float64 `json:"yaw"`
}
