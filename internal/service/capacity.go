package service

// AvailableSeats returns the free seats of a club, never negative.
func AvailableSeats(capacity, active int) int {
	if active >= capacity {
		return 0
	}
	return capacity - active
}

// HasSeat reports whether one more active enrollment fits.
func HasSeat(capacity, active int) bool {
	return active < capacity
}

// CanShrinkTo reports whether capacity may be lowered to newCapacity with active enrollments in place.
func CanShrinkTo(newCapacity, active int) bool {
	return newCapacity >= active
}
