// Package segmentation separates moving foreground from a static background
// by differencing two consecutive color frames.
//
// Segment runs the full per-frame sequence:
//
//	diff       = |curr - prev|                    per pixel, per channel
//	binary     = diff > threshold ? 255 : 0        per channel
//	opening    = OPEN(binary, rect(2r+1))
//	closing    = CLOSE(binary, rect(2r+1))
//	combined   = opening + closing                 saturating
//	plane      = C0 & C1 & C2                      single channel
//	plane     *= 255                               saturating
//	mask       = merge(plane, plane, plane)
//	foreground = curr & mask
//
// A radius of 0 yields a 1x1 structuring element and makes both morphological
// operations the identity.
//
// The steps are exported individually so they can be composed or checked in
// isolation. Callers own every Mat they pass in or receive.
package segmentation
