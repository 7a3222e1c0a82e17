package inventoryio

import "errors"

// ErrUnsupportedFormat is returned for file extensions other than .csv and
// .json.
var ErrUnsupportedFormat = errors.New("unsupported file format")
