package config

import (
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vectorcad/pkg/errors"
)

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		add("log.level: unknown level %q", c.Log.Level)
	}

	ic := c.Interaction
	if err := errors.ValidateFinite("interaction", ic.DragThresholdPx, ic.AxisLockMinDeltaPx,
		ic.AxisLockEnterRatio, ic.AxisLockSwitchRatio, ic.RotationSnapDegrees, ic.VertexSnapDegrees); err != nil {
		errs = append(errs, err)
	}
	if ic.DragThresholdPx < 0 {
		add("interaction.drag_threshold_px must not be negative, got %v", ic.DragThresholdPx)
	}
	if ic.AxisLockMinDeltaPx <= 0 {
		add("interaction.axis_lock_min_delta_px must be positive, got %v", ic.AxisLockMinDeltaPx)
	}
	if ic.AxisLockEnterRatio < 1 {
		add("interaction.axis_lock_enter_ratio must be at least 1, got %v", ic.AxisLockEnterRatio)
	}
	if ic.AxisLockSwitchRatio < 1 {
		add("interaction.axis_lock_switch_ratio must be at least 1, got %v", ic.AxisLockSwitchRatio)
	}
	if ic.RotationSnapDegrees <= 0 {
		add("interaction.rotation_snap_degrees must be positive, got %v", ic.RotationSnapDegrees)
	}
	if ic.VertexSnapDegrees <= 0 {
		add("interaction.vertex_snap_degrees must be positive, got %v", ic.VertexSnapDegrees)
	}

	if c.Snap.GridEnabled && c.Snap.GridSize <= 0 {
		add("snap.grid_size must be positive when the grid is enabled, got %v", c.Snap.GridSize)
	}
	if c.Snap.TolerancePx < 0 {
		add("snap.tolerance_px must not be negative, got %v", c.Snap.TolerancePx)
	}

	if c.TransformLog.Enabled && (c.TransformLog.MaxEntries <= 0 || c.TransformLog.MaxIDs <= 0) {
		add("transform_log limits must be positive when enabled")
	}

	if c.Events.RedisURL != "" {
		if err := errors.ValidateRedisURL(c.Events.RedisURL); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Events.MaxLen < 0 {
		add("events.max_len must not be negative, got %d", c.Events.MaxLen)
	}
	if c.Events.RetryAttempts < 1 {
		add("events.retry_attempts must be at least 1, got %d", c.Events.RetryAttempts)
	}

	if err := stderrors.Join(errs...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	return nil
}
