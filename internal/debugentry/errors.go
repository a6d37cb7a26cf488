package debugentry

import (
	"errors"
	"fmt"
)

// ErrContract marks a violated ingestion contract: the front end supplied
// facts in an order or shape the index cannot represent (a sub-range before
// its primary, a non-deopt range after a deopt range, mismatched parameter
// lists). These indicate a producer bug. The generation pass must be
// aborted on the first one, since the index numbering it would produce is
// no longer trustworthy for byte-exact emission.
var ErrContract = errors.New("debug info contract violation")

func contractErrf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrContract, fmt.Sprintf(format, args...))
}
