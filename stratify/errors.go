package stratify

import "errors"

// ErrNotStratifiable is wrapped by Stratify's returned error when at least
// one predicate is classified strictly lower than itself (a negation cycle).
var ErrNotStratifiable = errors.New("stratify: program is not stratifiable")
