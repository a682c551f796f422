package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		panic(err)
	}
}

// force timestamps into IST because the cron runners land in arbitrary
// timezones, while published timestamps must always carry +05:30
func Now() time.Time {
	return time.Now().In(Location)
}

// Stamp formats a time the way prices.json expects it: ISO 8601 with
// the IST offset spelled out.
func Stamp(t time.Time) string {
	return t.In(Location).Format(time.RFC3339)
}
