// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import "errors"

// Error kinds returned by the core's public operations. Per-frame
// planning failures are not represented here — they are not errors at
// the API boundary, only signals that trigger GPU fallback.
var (
	ErrTokenDuplicateFailed       = errors.New("compositor: token duplication failed")
	ErrRendererRejected           = errors.New("compositor: renderer rejected buffer collection")
	ErrDisplayImportFailed        = errors.New("compositor: display import failed")
	ErrImageInvalid               = errors.New("compositor: image metadata invalid")
	ErrImageInUse                 = errors.New("compositor: image already in flight")
	ErrLayersExhausted            = errors.New("compositor: not enough layers for this display")
	ErrUnsupportedSolidColorGeometry = errors.New("compositor: solid color rectangle does not cover the display")
	ErrCheckConfigFailed          = errors.New("compositor: check config failed")
	ErrApplyConfigFailed          = errors.New("compositor: apply config failed")
	ErrControllerTransportFailed  = errors.New("compositor: display controller transport failed")

	ErrCollectionNotFound = errors.New("compositor: unknown buffer collection")
	ErrDisplayNotFound    = errors.New("compositor: unknown display")
)
