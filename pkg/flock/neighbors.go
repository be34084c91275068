package flock

// LocalFlock is the set of neighbors seen by one agent during one update.
type LocalFlock struct {
	Neighbors []Agent
	// Distances[i] is the distance to Neighbors[i].
	Distances []float64
}

// Len returns the number of neighbors.
func (l LocalFlock) Len() int {
	return len(l.Neighbors)
}

// Nearest returns the index and distance of the closest neighbor.
// found is false for an empty flock; a neighbor at distance 0 is still found.
func (l LocalFlock) Nearest() (index int, distance float64, found bool) {
	for i, d := range l.Distances {
		if !found || d < distance {
			index, distance, found = i, d, true
		}
	}
	return index, distance, found
}

// FindNeighbors scans snapshot in order and collects the agents closer than radius
// to snapshot[self], skipping self. The scan stops as soon as limit neighbors
// have been collected: later agents are never looked at, even if they are closer.
// Self is excluded by index, so an agent sharing its exact state is still a neighbor.
func FindNeighbors(snapshot []Agent, self int, radius float64, limit int) LocalFlock {
	if self >= 0 && self < len(snapshot) {
		return findNeighbors(snapshot, self, snapshot[self], radius, limit)
	}
	return LocalFlock{}
}

// FindNeighborsOf is FindNeighbors for an agent that is not stored in snapshot.
func FindNeighborsOf(me Agent, snapshot []Agent, radius float64, limit int) LocalFlock {
	return findNeighbors(snapshot, -1, me, radius, limit)
}

func findNeighbors(snapshot []Agent, self int, me Agent, radius float64, limit int) LocalFlock {
	var local LocalFlock
	if limit <= 0 {
		return local
	}
	for i := range snapshot {
		if i == self {
			continue
		}
		d := me.Position.DistanceTo(snapshot[i].Position)
		if d >= radius {
			continue
		}
		local.Neighbors = append(local.Neighbors, snapshot[i])
		local.Distances = append(local.Distances, d)
		if len(local.Neighbors) == limit {
			break
		}
	}
	return local
}
