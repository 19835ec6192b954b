package xtime

import "time"

// UTCNow returns the current time in UTC.
//
// Every audit timestamp in the system is stamped through this function so
// that stored times are location independent and mockable in tests.
func UTCNow() time.Time {
	return utcNowFunc()
}

var utcNowFunc = func() time.Time {
	return time.Now().UTC()
}

// SetUTCNowFunc sets the function used to get current UTC time.
// This is primarily used for testing to mock the current time.
func SetUTCNowFunc(f func() time.Time) {
	utcNowFunc = f
}

// ResetUTCNowFunc resets the UTC now function to the default implementation.
// This should be called in test cleanup to avoid affecting other tests.
func ResetUTCNowFunc() {
	utcNowFunc = func() time.Time {
		return time.Now().UTC()
	}
}
