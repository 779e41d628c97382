// tofpa/errors.go
// Copyright(c) 2025 tofpa contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tofpa

import "errors"

// Surface-related
var (
	ErrRunwayTooShort     = errors.New("Runway geometry must have at least 2 points")
	ErrZeroLengthRunway   = errors.New("Runway has zero length; takeoff azimuth is undefined")
	ErrRunwayNotALine     = errors.New("Runway feature geometry is not a line")
	ErrThresholdNotAPoint = errors.New("Threshold feature geometry is not a point")
)

// Calculation-related
var (
	ErrInvalidParameters = errors.New("Invalid calculation parameters")
	ErrNoObstacles       = errors.New("No obstacles found or processed")
)
