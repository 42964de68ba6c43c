package construct

import "errors"

// errInvalidOrder indicates the requested job order is not a permutation of
// [0, inst.Jobs()).
var errInvalidOrder = errors.New("construct: order is not a permutation of the instance's jobs")
