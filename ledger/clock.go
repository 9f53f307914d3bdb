package ledger

import "time"

// Clock supplies the current time. The ledgers take a Clock instead of
// calling time.Now directly so CreatedAt/UpdatedAt/PaidAt are deterministic
// under test.
type Clock func() time.Time

// SystemClock returns the current UTC time.
func SystemClock() time.Time { return time.Now().UTC() }
