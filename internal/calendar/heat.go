package calendar

// heatFloor is the minimum divisor for occupancy scoring. Without it a
// window whose busiest day holds a single event would render that day at
// full saturation, which reads as misleadingly "hot" in sparse windows.
const heatFloor = 3

// Heat computes a normalized occupancy score in [0, 1] for every day in the
// bucket map, relative to the busiest day in the visible window. An entirely
// empty window scores every day 0. Pure function of the bucket map.
func Heat(buckets map[DayKey][]Event) map[DayKey]float64 {
	heat := make(map[DayKey]float64, len(buckets))

	busiest := 0
	for _, list := range buckets {
		if len(list) > busiest {
			busiest = len(list)
		}
	}
	if busiest == 0 {
		for key := range buckets {
			heat[key] = 0
		}
		return heat
	}

	divisor := busiest
	if divisor < heatFloor {
		divisor = heatFloor
	}

	for key, list := range buckets {
		score := float64(len(list)) / float64(divisor)
		if score > 1 {
			score = 1
		}
		heat[key] = score
	}
	return heat
}
