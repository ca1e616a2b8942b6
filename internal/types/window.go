package types

// WindowGeometry is the persisted outer geometry of the main window.
// Field names and JSON keys are part of the on-disk state file format.
type WindowGeometry struct {
	X         int32  `json:"x"`
	Y         int32  `json:"y"`
	Width     uint32 `json:"width"`
	Height    uint32 `json:"height"`
	Maximized bool   `json:"maximized"`
}

// MeetsMinimum reports whether the geometry is large enough to be applied
func (g WindowGeometry) MeetsMinimum(minWidth, minHeight uint32) bool {
	return g.Width >= minWidth && g.Height >= minHeight
}
