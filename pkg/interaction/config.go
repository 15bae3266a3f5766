package interaction

// Default tuning values.
const (
	DefaultDragThresholdPx     = 3.0
	DefaultAxisLockMinDeltaPx  = 4.0
	DefaultAxisLockEnterRatio  = 1.1
	DefaultAxisLockSwitchRatio = 1.2
	DefaultRotationSnapDegrees = 15.0
	DefaultVertexSnapDegrees   = 45.0
)

// Config tunes gesture recognition.
type Config struct {
	// DragThresholdPx is the screen distance the pointer must travel before
	// an update has any effect.
	DragThresholdPx float64 `json:"drag_threshold_px" toml:"drag_threshold_px" koanf:"drag_threshold_px"`

	// AxisLockMinDeltaPx is the screen distance before axis lock picks an axis.
	AxisLockMinDeltaPx float64 `json:"axis_lock_min_delta_px" toml:"axis_lock_min_delta_px" koanf:"axis_lock_min_delta_px"`

	// AxisLockEnterRatio is how dominant an axis must be to enter a lock.
	AxisLockEnterRatio float64 `json:"axis_lock_enter_ratio" toml:"axis_lock_enter_ratio" koanf:"axis_lock_enter_ratio"`

	// AxisLockSwitchRatio is how dominant the other axis must be to switch.
	AxisLockSwitchRatio float64 `json:"axis_lock_switch_ratio" toml:"axis_lock_switch_ratio" koanf:"axis_lock_switch_ratio"`

	RotationSnapDegrees float64 `json:"rotation_snap_degrees" toml:"rotation_snap_degrees" koanf:"rotation_snap_degrees"`
	VertexSnapDegrees   float64 `json:"vertex_snap_degrees" toml:"vertex_snap_degrees" koanf:"vertex_snap_degrees"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		DragThresholdPx:     DefaultDragThresholdPx,
		AxisLockMinDeltaPx:  DefaultAxisLockMinDeltaPx,
		AxisLockEnterRatio:  DefaultAxisLockEnterRatio,
		AxisLockSwitchRatio: DefaultAxisLockSwitchRatio,
		RotationSnapDegrees: DefaultRotationSnapDegrees,
		VertexSnapDegrees:   DefaultVertexSnapDegrees,
	}
}

// withDefaults replaces unset fields with their defaults. A zero drag
// threshold is kept: it makes every update effective.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DragThresholdPx < 0 {
		c.DragThresholdPx = d.DragThresholdPx
	}
	if c.AxisLockMinDeltaPx <= 0 {
		c.AxisLockMinDeltaPx = d.AxisLockMinDeltaPx
	}
	if c.AxisLockEnterRatio < 1 {
		c.AxisLockEnterRatio = d.AxisLockEnterRatio
	}
	if c.AxisLockSwitchRatio < 1 {
		c.AxisLockSwitchRatio = d.AxisLockSwitchRatio
	}
	if c.RotationSnapDegrees <= 0 {
		c.RotationSnapDegrees = d.RotationSnapDegrees
	}
	if c.VertexSnapDegrees <= 0 {
		c.VertexSnapDegrees = d.VertexSnapDegrees
	}
	return c
}
