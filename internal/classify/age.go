package classify

import "time"

// Age returns whole years between dob and today using exact calendar
// subtraction: the year difference, minus one when the birthday has not yet
// been reached this year. A birthday falling on today counts as reached.
func Age(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() ||
		(today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}
