package utils

// TicketAmount is the price of a reservation: price per seat times seat count.
func TicketAmount(pricePerSeat int64, seatCount int) int64 {
	if pricePerSeat <= 0 || seatCount <= 0 {
		return 0
	}
	return pricePerSeat * int64(seatCount)
}
