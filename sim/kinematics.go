package sim

// closingMetersPerHour converts closing distance to catch-up time:
// minutes = dist / closingMetersPerHour * 60.
const closingMetersPerHour = 120000.0

// CatchUp returns the closing distance (meters) and catch-up time (minutes)
// for a vehicle at speed v1 starting gap meters behind a reference vehicle at v2.
//
// Vehicles slower than the reference get negative values; they never catch up,
// and the window filter excludes them by its lower bound. v1 == v2 divides by
// zero and yields +Inf (or NaN for a zero gap), which never passes either.
func CatchUp(v1, gap, v2 float64) (dist, minutes float64) {
	dist = gap / (v1/v2 - 1)
	minutes = dist / closingMetersPerHour * 60
	return dist, minutes
}

// Evaluate fills Dist and Time for every row against reference speed v2.
func Evaluate(sample Sample, v2 float64) {
	for i := range sample {
		sample[i].Dist, sample[i].Time = CatchUp(sample[i].Speed, sample[i].Gap, v2)
	}
}
