// SPDX-License-Identifier: EPL-2.0

package channel

import "errors"

// ErrUnknownPosition is returned when a name does not match any position.
var ErrUnknownPosition = errors.New("unknown channel position")
