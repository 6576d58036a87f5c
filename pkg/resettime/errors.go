package resettime

import "errors"

// ErrInvalidPhrases reports an incomplete locale phrase set.
var ErrInvalidPhrases = errors.New("invalid phrases")
