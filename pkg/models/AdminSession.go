package models

import (
	"time"
)

/*
AdminSession is what the admin session cookie carries once the password
check succeeds.
*/
type AdminSession struct {
	LoggedInAt time.Time
}
