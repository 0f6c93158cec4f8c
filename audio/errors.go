// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrNoChannels is returned when there is nothing to mix.
	ErrNoChannels = errors.New("no channels to mix")

	// ErrInvalidRate is returned for sample rates that are not positive.
	ErrInvalidRate = errors.New("invalid sample rate")
)
