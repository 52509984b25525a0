package password

import "errors"

// ErrInvalidHash reports a malformed or unsupported encoded credential.
// A wrong password is NOT an error; Verify returns (false, nil) for that.
var ErrInvalidHash = errors.New("invalid password hash")
